package paint

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Archive layout: 4-byte magic, 1-byte version, then R,G,B,A as big-endian
// float64. The whole record is base64 (standard alphabet) encoded so it fits
// a string-valued preference slot.
const (
	archiveVersion = 1
	archiveLen     = 4 + 1 + 4*8
)

var archiveMagic = [4]byte{'R', 'C', 'L', 'R'}

// ErrCorruptArchive is returned for archives that cannot be decoded.
var ErrCorruptArchive = errors.New("corrupt colour archive")

// Encode archives c and returns it as base64 text.
func Encode(c Color) string {
	var buf bytes.Buffer
	buf.Grow(archiveLen)
	buf.Write(archiveMagic[:])
	buf.WriteByte(archiveVersion)
	for _, v := range [4]float64{c.R, c.G, c.B, c.A} {
		_ = binary.Write(&buf, binary.BigEndian, clamp01(v))
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// Decode reverses Encode. Any malformed input yields ErrCorruptArchive.
func Decode(s string) (Color, error) {
	if s == "" {
		return Color{}, fmt.Errorf("%w: empty", ErrCorruptArchive)
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	if len(raw) != archiveLen {
		return Color{}, fmt.Errorf("%w: length %d", ErrCorruptArchive, len(raw))
	}
	if !bytes.Equal(raw[:4], archiveMagic[:]) {
		return Color{}, fmt.Errorf("%w: bad magic", ErrCorruptArchive)
	}
	if raw[4] != archiveVersion {
		return Color{}, fmt.Errorf("%w: unsupported version %d", ErrCorruptArchive, raw[4])
	}

	var comps [4]float64
	if err := binary.Read(bytes.NewReader(raw[5:]), binary.BigEndian, &comps); err != nil {
		return Color{}, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	for _, v := range comps {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1 {
			return Color{}, fmt.Errorf("%w: component out of range", ErrCorruptArchive)
		}
	}
	return Color{R: comps[0], G: comps[1], B: comps[2], A: comps[3]}, nil
}

// DecodeOr decodes s, returning fallback when s is corrupt.
func DecodeOr(s string, fallback Color) Color {
	c, err := Decode(s)
	if err != nil {
		return fallback
	}
	return c
}
