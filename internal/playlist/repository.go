// Package playlist stores the user's playlists as one JSON array under the
// "playlists" key. Every mutation rewrites the whole array through the key's
// single-writer lane.
package playlist

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/GoldSenseiBoi/iTunesSeeker/internal/apperr"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/catalog"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/kv"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/viewsync"
)

// Repository is what views depend on.
type Repository interface {
	List(ctx context.Context) ([]Playlist, error)
	Get(ctx context.Context, id string) (Playlist, bool, error)
	Create(ctx context.Context, name, image string) (Playlist, error)
	Update(ctx context.Context, id string, ch Changes) (Playlist, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	AddTrack(ctx context.Context, playlistID string, track catalog.Track) (Result, error)
	RemoveTrack(ctx context.Context, playlistID string, trackID int64) (Result, error)
}

type Store struct {
	coll   *kv.Collection[[]Playlist]
	ids    IDSource
	notify viewsync.Notifier
	log    *zap.Logger
}

type Option func(*Store)

func WithIDs(ids IDSource) Option { return func(s *Store) { s.ids = ids } }

func WithNotifier(n viewsync.Notifier) Option { return func(s *Store) { s.notify = n } }

func WithLogger(l *zap.Logger) Option { return func(s *Store) { s.log = l } }

func NewStore(store kv.Store, queue *kv.Queue, opts ...Option) *Store {
	s := &Store{
		coll:   kv.NewCollection(store, queue, kv.KeyPlaylists, func() []Playlist { return []Playlist{} }),
		ids:    NewClockIDs(nil),
		notify: viewsync.Discard,
		log:    zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) List(ctx context.Context) ([]Playlist, error) {
	all, err := s.coll.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	for i := range all {
		if all[i].Songs == nil {
			all[i].Songs = []catalog.Track{}
		}
	}
	return all, nil
}

func (s *Store) Get(ctx context.Context, id string) (Playlist, bool, error) {
	all, err := s.List(ctx)
	if err != nil {
		return Playlist{}, false, err
	}
	if i := find(all, id); i >= 0 {
		return all[i], true, nil
	}
	return Playlist{}, false, nil
}

func (s *Store) Create(ctx context.Context, name, image string) (Playlist, error) {
	name = strings.TrimSpace(name)
	image = strings.TrimSpace(image)
	if name == "" || image == "" {
		return Playlist{}, apperr.Validation("name and image are required")
	}

	pl := Playlist{
		Name:  name,
		Image: image,
		Songs: []catalog.Track{},
	}
	proposed := s.ids.NextID()
	_, err := s.coll.Update(ctx, func(all *[]Playlist) (bool, error) {
		// Another process sharing the store may already hold this id.
		pl.ID = freeID(*all, proposed)
		*all = append(*all, pl)
		return true, nil
	})
	if err != nil {
		return Playlist{}, fmt.Errorf("create playlist: %w", err)
	}

	s.notify.Mutated(viewsync.PlaylistCreated)
	s.log.Info("playlist created", zap.String("id", pl.ID), zap.String("name", pl.Name))
	return pl, nil
}

// Update renames and/or re-images a playlist. A missing id is not an error:
// found comes back false and nothing is written.
func (s *Store) Update(ctx context.Context, id string, ch Changes) (Playlist, bool, error) {
	var name, image string
	if ch.Name != nil {
		if name = strings.TrimSpace(*ch.Name); name == "" {
			return Playlist{}, false, apperr.Validation("name must not be empty")
		}
	}
	if ch.Image != nil {
		if image = strings.TrimSpace(*ch.Image); image == "" {
			return Playlist{}, false, apperr.Validation("image must not be empty")
		}
	}

	var (
		found   bool
		updated Playlist
	)
	changed, err := s.coll.Update(ctx, func(all *[]Playlist) (bool, error) {
		i := find(*all, id)
		if found = i >= 0; !found {
			return false, nil
		}
		p := &(*all)[i]
		dirty := false
		if ch.Name != nil && p.Name != name {
			p.Name, dirty = name, true
		}
		if ch.Image != nil && p.Image != image {
			p.Image, dirty = image, true
		}
		updated = *p
		return dirty, nil
	})
	if err != nil {
		return Playlist{}, false, fmt.Errorf("update playlist %s: %w", id, err)
	}
	if !found {
		s.log.Debug("update on missing playlist", zap.String("id", id))
		return Playlist{}, false, nil
	}
	if changed {
		s.notify.Mutated(viewsync.PlaylistUpdated)
	}
	if updated.Songs == nil {
		updated.Songs = []catalog.Track{}
	}
	return updated, true, nil
}

func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	found, err := s.coll.Update(ctx, func(all *[]Playlist) (bool, error) {
		i := find(*all, id)
		if i < 0 {
			return false, nil
		}
		*all = append((*all)[:i], (*all)[i+1:]...)
		return true, nil
	})
	if err != nil {
		return false, fmt.Errorf("delete playlist %s: %w", id, err)
	}
	if found {
		s.notify.Mutated(viewsync.PlaylistDeleted)
		s.log.Info("playlist deleted", zap.String("id", id))
	}
	return found, nil
}

// AddTrack appends a copy of track unless the playlist already holds a song
// with the same trackId.
func (s *Store) AddTrack(ctx context.Context, playlistID string, track catalog.Track) (Result, error) {
	if track.TrackID == 0 {
		return Result{}, apperr.Validation("track id is required")
	}
	var res Result
	_, err := s.coll.Update(ctx, func(all *[]Playlist) (bool, error) {
		res = Result{}
		i := find(*all, playlistID)
		if i < 0 {
			return false, nil
		}
		res.Found = true
		p := &(*all)[i]
		if p.Has(track.TrackID) {
			return false, nil
		}
		p.Songs = append(p.Songs, track)
		res.Changed = true
		return true, nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("add track to %s: %w", playlistID, err)
	}
	if res.Changed {
		s.notify.Mutated(viewsync.TrackAdded)
	}
	return res, nil
}

func (s *Store) RemoveTrack(ctx context.Context, playlistID string, trackID int64) (Result, error) {
	var res Result
	_, err := s.coll.Update(ctx, func(all *[]Playlist) (bool, error) {
		res = Result{}
		i := find(*all, playlistID)
		if i < 0 {
			return false, nil
		}
		res.Found = true
		p := &(*all)[i]
		j := p.indexOf(trackID)
		if j < 0 {
			return false, nil
		}
		p.Songs = append(p.Songs[:j], p.Songs[j+1:]...)
		res.Changed = true
		return true, nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("remove track from %s: %w", playlistID, err)
	}
	if res.Changed {
		s.notify.Mutated(viewsync.TrackRemoved)
	}
	return res, nil
}

// freeID returns id, or the first id after it that no playlist in all uses.
// Numeric ids count upward; anything else gets a numeric suffix.
func freeID(all []Playlist, id string) string {
	if find(all, id) < 0 {
		return id
	}
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		for {
			n++
			if c := strconv.FormatInt(n, 10); find(all, c) < 0 {
				return c
			}
		}
	}
	for i := 2; ; i++ {
		if c := id + "-" + strconv.Itoa(i); find(all, c) < 0 {
			return c
		}
	}
}

func find(all []Playlist, id string) int {
	for i := range all {
		if all[i].ID == id {
			return i
		}
	}
	return -1
}
