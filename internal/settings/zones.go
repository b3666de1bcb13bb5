package settings

import (
	"context"
	"fmt"
	"slices"

	"github.com/mattjoyce/ringclock/internal/prefs"
	"github.com/mattjoyce/ringclock/internal/timemodel"
)

// SelectedZones returns the ordered, deduplicated zone selection. A missing,
// corrupt or empty selection reads as the host zone alone.
func (s *Settings) SelectedZones() []string {
	ids := dedupe(prefs.JSON[[]string](s.store, KeySelectedTimeZones, nil))
	if len(ids) == 0 {
		return []string{s.hostZone()}
	}
	return ids
}

// PrimaryZone returns the stored primary zone, or the first selected zone.
func (s *Settings) PrimaryZone() string {
	if id := s.store.String(KeyPrimaryTimeZone, ""); id != "" {
		return id
	}
	return s.SelectedZones()[0]
}

// SetZones replaces the selection. Every id must resolve.
func (s *Settings) SetZones(ctx context.Context, ids []string) error {
	for _, id := range ids {
		if !timemodel.ValidZone(id) {
			return fmt.Errorf("%w: %q", ErrUnknownZone, id)
		}
	}
	return s.store.SetJSON(ctx, KeySelectedTimeZones, dedupe(ids))
}

// AddZone appends id to the selection. Adding a present id is a no-op.
func (s *Settings) AddZone(ctx context.Context, id string) error {
	if !timemodel.ValidZone(id) {
		return fmt.Errorf("%w: %q", ErrUnknownZone, id)
	}
	ids := s.SelectedZones()
	if slices.Contains(ids, id) {
		return nil
	}
	return s.store.SetJSON(ctx, KeySelectedTimeZones, append(ids, id))
}

// RemoveZone drops id from the selection. Removing an absent id is a no-op.
// Removing the primary zone clears the primary so it follows the selection.
func (s *Settings) RemoveZone(ctx context.Context, id string) error {
	ids := s.SelectedZones()
	idx := slices.Index(ids, id)
	if idx < 0 {
		return nil
	}
	ids = slices.Delete(ids, idx, idx+1)
	if err := s.store.SetJSON(ctx, KeySelectedTimeZones, ids); err != nil {
		return err
	}
	if s.store.String(KeyPrimaryTimeZone, "") == id {
		return s.store.Delete(ctx, KeyPrimaryTimeZone)
	}
	return nil
}

// SetPrimaryZone makes id the primary zone, adding it to the selection when
// it is not already there.
func (s *Settings) SetPrimaryZone(ctx context.Context, id string) error {
	if err := s.AddZone(ctx, id); err != nil {
		return err
	}
	return s.store.SetString(ctx, KeyPrimaryTimeZone, id)
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
