// Package rating keeps a 1-5 star rating per track under the "ratings" key.
package rating

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/GoldSenseiBoi/iTunesSeeker/internal/apperr"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/kv"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/viewsync"
)

const (
	Min = 1
	Max = 5
)

// Map is keyed by the decimal trackId.
type Map map[string]int

type Repository interface {
	All(ctx context.Context) (Map, error)
	Get(ctx context.Context, trackID int64) (int, bool, error)
	Set(ctx context.Context, trackID int64, value int) error
}

type Store struct {
	coll   *kv.Collection[Map]
	notify viewsync.Notifier
	log    *zap.Logger
}

func NewStore(store kv.Store, queue *kv.Queue, notify viewsync.Notifier, log *zap.Logger) *Store {
	if notify == nil {
		notify = viewsync.Discard
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		coll:   kv.NewCollection(store, queue, kv.KeyRatings, func() Map { return Map{} }),
		notify: notify,
		log:    log,
	}
}

func (s *Store) All(ctx context.Context) (Map, error) {
	m, err := s.coll.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}
	return m, nil
}

func (s *Store) Get(ctx context.Context, trackID int64) (int, bool, error) {
	m, err := s.All(ctx)
	if err != nil {
		return 0, false, err
	}
	v, ok := m[key(trackID)]
	return v, ok, nil
}

// Set creates or overwrites the rating of trackID. There is no way to remove
// a rating.
func (s *Store) Set(ctx context.Context, trackID int64, value int) error {
	if trackID <= 0 {
		return apperr.Validation("track id must be positive")
	}
	if value < Min || value > Max {
		return apperr.Validation("rating must be between %d and %d", Min, Max)
	}
	changed, err := s.coll.Update(ctx, func(m *Map) (bool, error) {
		k := key(trackID)
		if cur, ok := (*m)[k]; ok && cur == value {
			return false, nil
		}
		(*m)[k] = value
		return true, nil
	})
	if err != nil {
		return fmt.Errorf("set rating %d: %w", trackID, err)
	}
	if changed {
		s.notify.Mutated(viewsync.RatingSet)
		s.log.Debug("rating set", zap.Int64("trackId", trackID), zap.Int("value", value))
	}
	return nil
}

func key(trackID int64) string { return strconv.FormatInt(trackID, 10) }
