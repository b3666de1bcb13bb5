package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrAlreadyStarted = errors.New("loop already started")

// Loop calls a tick function immediately on Start and then every interval
// until Stop or context cancellation.
type Loop struct {
	name     string
	interval time.Duration
	tick     func(ctx context.Context)
	logger   *slog.Logger

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	stopped sync.Once
	wg      sync.WaitGroup
}

func NewLoop(name string, interval time.Duration, tick func(ctx context.Context), logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		name:     name,
		interval: interval,
		tick:     tick,
		logger:   logger.With("loop", name),
		stopCh:   make(chan struct{}),
	}
}

func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return ErrAlreadyStarted
	}
	if l.interval <= 0 {
		return errors.New("loop interval must be positive")
	}
	l.started = true

	l.logger.Debug("starting loop", "interval", l.interval)
	l.wg.Add(1)
	go l.run(ctx)
	return nil
}

// Stop ends the loop and waits for an in-flight tick. Safe to call more than
// once and before Start.
func (l *Loop) Stop() {
	l.stopped.Do(func() { close(l.stopCh) })
	l.wg.Wait()
}

func (l *Loop) run(ctx context.Context) {
	defer l.wg.Done()

	// Initial tick immediately
	l.tick(ctx)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.tick(ctx)
		case <-l.stopCh:
			l.logger.Debug("loop stopped")
			return
		case <-ctx.Done():
			l.logger.Warn("context cancelled, stopping tick loop")
			return
		}
	}
}
