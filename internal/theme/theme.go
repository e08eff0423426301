// Package theme persists the dark-mode switch.
package theme

import (
	"context"
	"fmt"
	"strconv"

	"github.com/GoldSenseiBoi/iTunesSeeker/internal/kv"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/viewsync"
)

// Palette is what screens paint with.
type Palette struct {
	Background string `json:"background"`
	Text       string `json:"text"`
	Subtext    string `json:"subtext"`
	Card       string `json:"card"`
	Highlight  string `json:"highlight"`
}

var (
	Light = Palette{Background: "#ffffff", Text: "#000000", Subtext: "#555555", Card: "#f0f0f0", Highlight: "#1e90ff"}
	Dark  = Palette{Background: "#121212", Text: "#ffffff", Subtext: "#aaaaaa", Card: "#1e1e1e", Highlight: "#1e90ff"}
)

type Settings struct {
	store  kv.Store
	queue  *kv.Queue
	notify viewsync.Notifier
}

func NewSettings(store kv.Store, queue *kv.Queue, notify viewsync.Notifier) *Settings {
	if notify == nil {
		notify = viewsync.Discard
	}
	return &Settings{store: store, queue: queue, notify: notify}
}

// Dark reports whether dark mode is on. Anything but "true" is off.
func (s *Settings) Dark(ctx context.Context) (bool, error) {
	v, _, err := s.store.Get(ctx, kv.KeyDarkMode)
	if err != nil {
		return false, fmt.Errorf("load theme: %w", err)
	}
	return v == "true", nil
}

func (s *Settings) Set(ctx context.Context, dark bool) error {
	_, err := s.apply(ctx, func(bool) bool { return dark })
	return err
}

// Toggle flips dark mode and returns the new value.
func (s *Settings) Toggle(ctx context.Context) (bool, error) {
	return s.apply(ctx, func(cur bool) bool { return !cur })
}

// apply writes next(current) under the dark-mode lane. On a Swapper backend
// the write only lands if no other process changed the flag since it was read.
func (s *Settings) apply(ctx context.Context, next func(bool) bool) (bool, error) {
	var (
		val     bool
		changed bool
	)
	err := s.queue.Do(ctx, kv.KeyDarkMode, func(ctx context.Context) error {
		swapper, shared := s.store.(kv.Swapper)
		for attempt := 0; attempt < kv.MaxSwapAttempts; attempt++ {
			raw, ok, err := s.store.Get(ctx, kv.KeyDarkMode)
			if err != nil {
				return err
			}
			cur := raw == "true"
			val = next(cur)
			if val == cur {
				return nil
			}
			if !shared {
				changed = true
				return s.store.Set(ctx, kv.KeyDarkMode, strconv.FormatBool(val))
			}
			swapped, err := swapper.CompareAndSet(ctx, kv.KeyDarkMode, raw, ok, strconv.FormatBool(val))
			if err != nil {
				return err
			}
			if swapped {
				changed = true
				return nil
			}
		}
		return fmt.Errorf("%w: %s", kv.ErrConflict, kv.KeyDarkMode)
	})
	if err != nil {
		return false, fmt.Errorf("save theme: %w", err)
	}
	if changed {
		s.notify.Mutated(viewsync.ThemeChanged)
	}
	return val, nil
}

// PaletteFor picks the palette for a dark-mode flag.
func PaletteFor(dark bool) Palette {
	if dark {
		return Dark
	}
	return Light
}
