// Package preview plays the short audio previews that catalog tracks link to.
package preview

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrClosed    = errors.New("preview deck closed")
	ErrNoPreview = errors.New("track has no preview")
)

// Player turns a preview URL into a loaded Sound.
type Player interface {
	Load(ctx context.Context, url string) (Sound, error)
}

type Sound interface {
	Play() error
	Pause() error
	Stop() error
	Unload() error
}

// Deck holds at most one loaded sound. Each view owns its own deck and closes
// it when the view goes away.
type Deck struct {
	player Player
	log    *zap.Logger

	mu      sync.Mutex
	sound   Sound
	current int64
	playing bool
	closed  bool
}

func NewDeck(player Player, log *zap.Logger) *Deck {
	if log == nil {
		log = zap.NewNop()
	}
	return &Deck{player: player, log: log}
}

// Play releases whatever is loaded, then loads and starts the preview of id.
func (d *Deck) Play(ctx context.Context, id int64, url string) error {
	if url == "" {
		return ErrNoPreview
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.releaseLocked()

	s, err := d.player.Load(ctx, url)
	if err != nil {
		return fmt.Errorf("load preview %d: %w", id, err)
	}
	if err := s.Play(); err != nil {
		if uerr := s.Unload(); uerr != nil {
			d.log.Warn("unload after failed play", zap.Error(uerr))
		}
		return fmt.Errorf("play preview %d: %w", id, err)
	}
	d.sound, d.current, d.playing = s, id, true
	return nil
}

// Pause keeps the sound loaded. It is a no-op when nothing is playing.
func (d *Deck) Pause() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sound == nil || !d.playing {
		return nil
	}
	if err := d.sound.Pause(); err != nil {
		return fmt.Errorf("pause preview %d: %w", d.current, err)
	}
	d.playing = false
	return nil
}

// Playing reports the track id of the sound currently playing.
func (d *Deck) Playing() (int64, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sound == nil || !d.playing {
		return 0, false
	}
	return d.current, true
}

func (d *Deck) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.releaseLocked()
	d.closed = true
	return nil
}

func (d *Deck) releaseLocked() {
	if d.sound == nil {
		return
	}
	if err := d.sound.Stop(); err != nil {
		d.log.Warn("stop preview", zap.Int64("trackId", d.current), zap.Error(err))
	}
	if err := d.sound.Unload(); err != nil {
		d.log.Warn("unload preview", zap.Int64("trackId", d.current), zap.Error(err))
	}
	d.sound, d.current, d.playing = nil, 0, false
}
