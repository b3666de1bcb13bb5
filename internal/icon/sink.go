package icon

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

//go:generate mockgen -destination=mocks/mock_sink.go -package=mocks github.com/mattjoyce/ringclock/internal/icon Sink

// Sink installs a rendered icon wherever the host shows it.
type Sink interface {
	Install(ctx context.Context, size int, img image.Image) error
}

// PNGSink writes <prefix>-<size>.png files into a directory.
type PNGSink struct {
	Dir    string
	Prefix string
}

func NewPNGSink(dir, prefix string) (*PNGSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("icon output directory is empty")
	}
	if prefix == "" {
		prefix = "ringclock"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create icon directory: %w", err)
	}
	return &PNGSink{Dir: dir, Prefix: prefix}, nil
}

// Path is the file written for size.
func (s *PNGSink) Path(size int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s-%d.png", s.Prefix, size))
}

// Install encodes img and atomically replaces the file for size.
func (s *PNGSink) Install(ctx context.Context, size int, img image.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.Dir, fmt.Sprintf(".%s-%d-*.png", s.Prefix, size))
	if err != nil {
		return fmt.Errorf("create temp icon: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := png.Encode(tmp, img); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode icon: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp icon: %w", err)
	}
	if err := os.Rename(tmpName, s.Path(size)); err != nil {
		return fmt.Errorf("install icon: %w", err)
	}
	return nil
}
