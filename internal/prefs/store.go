// Package prefs is a typed key-value preference store with a write-through
// cache. Reads are total: a missing or undecodable value yields the caller's
// default and never an error.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"
	"strconv"
	"sync"

	"github.com/mattjoyce/ringclock/internal/events"
	"github.com/mattjoyce/ringclock/internal/paint"
	"github.com/mattjoyce/ringclock/internal/storage"
)

// Change is the payload of an events.PreferenceChanged event.
type Change struct {
	Key     string `json:"key"`
	Deleted bool   `json:"deleted,omitempty"`
}

type Store struct {
	mu      sync.RWMutex
	backend storage.Backend
	cache   map[string]string

	hub    *events.Hub
	logger *slog.Logger
}

type Option func(*Store)

func WithHub(h *events.Hub) Option {
	return func(s *Store) { s.hub = h }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open loads every stored key from backend into the cache.
func Open(ctx context.Context, backend storage.Backend, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		logger:  slog.Default().With("component", "prefs"),
	}
	for _, opt := range opts {
		opt(s)
	}

	all, err := backend.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	if all == nil {
		all = map[string]string{}
	}
	s.cache = all
	s.logger.Debug("preferences loaded", "count", len(all))
	return s, nil
}

// Raw returns the stored text of key.
func (s *Store) Raw(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.cache[key]
	return v, ok
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.cache))
}

func (s *Store) String(key, def string) string {
	if v, ok := s.Raw(key); ok {
		return v
	}
	return def
}

func (s *Store) Bool(key string, def bool) bool {
	v, ok := s.Raw(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		s.corrupt(key, err)
		return def
	}
	return b
}

func (s *Store) Float(key string, def float64) float64 {
	v, ok := s.Raw(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
		err = fmt.Errorf("non-finite value %q", v)
	}
	if err != nil {
		s.corrupt(key, err)
		return def
	}
	return f
}

func (s *Store) Color(key string, def paint.Color) paint.Color {
	v, ok := s.Raw(key)
	if !ok {
		return def
	}
	c, err := paint.Decode(v)
	if err != nil {
		s.corrupt(key, err)
		return def
	}
	return c
}

// JSON decodes the JSON stored under key into a T.
func JSON[T any](s *Store, key string, def T) T {
	v, ok := s.Raw(key)
	if !ok {
		return def
	}
	var out T
	if err := json.Unmarshal([]byte(v), &out); err != nil {
		s.corrupt(key, err)
		return def
	}
	return out
}

// Valid reports whether the stored value of key decodes as the given kind.
// Missing keys are valid.
func (s *Store) Valid(key string, kind Kind) error {
	v, ok := s.Raw(key)
	if !ok {
		return nil
	}
	return kind.Check(v)
}

func (s *Store) SetString(ctx context.Context, key, v string) error {
	return s.put(ctx, key, v)
}

func (s *Store) SetBool(ctx context.Context, key string, v bool) error {
	return s.put(ctx, key, strconv.FormatBool(v))
}

func (s *Store) SetFloat(ctx context.Context, key string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("preference %q: non-finite value", key)
	}
	return s.put(ctx, key, strconv.FormatFloat(v, 'g', -1, 64))
}

func (s *Store) SetColor(ctx context.Context, key string, c paint.Color) error {
	return s.put(ctx, key, paint.Encode(c))
}

func (s *Store) SetJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode preference %q: %w", key, err)
	}
	return s.put(ctx, key, string(b))
}

// Delete removes key so later reads return their default.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.cache, key)
	err := s.backend.Delete(ctx, key)
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("failed to delete preference", "key", key, "error", err)
		return fmt.Errorf("delete preference %q: %w", key, err)
	}
	s.hub.Publish(events.PreferenceChanged, Change{Key: key, Deleted: true})
	return nil
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// put updates the cache, then persists. The cached value stays readable for
// the session even when persistence fails.
func (s *Store) put(ctx context.Context, key, v string) error {
	if key == "" {
		return storage.ErrEmptyKey
	}

	s.mu.Lock()
	s.cache[key] = v
	err := s.backend.Put(ctx, key, v)
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("failed to persist preference", "key", key, "error", err)
		return fmt.Errorf("persist preference %q: %w", key, err)
	}
	s.hub.Publish(events.PreferenceChanged, Change{Key: key})
	return nil
}

func (s *Store) corrupt(key string, err error) {
	s.logger.Debug("preference value unreadable, using default", "key", key, "error", err)
}
