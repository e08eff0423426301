// Package viewsync defines when a view re-reads repository state.
//
// A view loads once on first mount, reloads unconditionally whenever it
// regains focus, and reloads right after a local mutation of a kind it
// depends on. Nothing polls and nothing is pushed: a change made by another
// view only marks this one stale until its next focus.
package viewsync

import "sync"

// Kind names a class of local mutation.
type Kind int

const (
	PlaylistCreated Kind = iota + 1
	PlaylistUpdated
	PlaylistDeleted
	TrackAdded
	TrackRemoved
	RatingSet
	ThemeChanged
	SessionChanged
)

var kindNames = map[Kind]string{
	PlaylistCreated: "playlist.created",
	PlaylistUpdated: "playlist.updated",
	PlaylistDeleted: "playlist.deleted",
	TrackAdded:      "track.added",
	TrackRemoved:    "track.removed",
	RatingSet:       "rating.set",
	ThemeChanged:    "theme.changed",
	SessionChanged:  "session.changed",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "unknown"
}

// AllKinds lists every mutation kind in declaration order.
func AllKinds() []Kind {
	return []Kind{
		PlaylistCreated, PlaylistUpdated, PlaylistDeleted,
		TrackAdded, TrackRemoved, RatingSet, ThemeChanged, SessionChanged,
	}
}

// PlaylistKinds are the mutations that change the playlists collection.
var PlaylistKinds = []Kind{PlaylistCreated, PlaylistUpdated, PlaylistDeleted, TrackAdded, TrackRemoved}

// Notifier is told about every mutation that actually changed stored state.
type Notifier interface {
	Mutated(kinds ...Kind)
}

type discard struct{}

func (discard) Mutated(...Kind) {}

// Discard drops notifications.
var Discard Notifier = discard{}

// Journal counts mutations per kind. Views compare these versions with the
// ones they saw at their last load to know whether they are stale.
type Journal struct {
	mu       sync.Mutex
	versions map[Kind]uint64
}

func NewJournal() *Journal {
	return &Journal{versions: make(map[Kind]uint64)}
}

func (j *Journal) Mutated(kinds ...Kind) {
	j.mu.Lock()
	for _, k := range kinds {
		j.versions[k]++
	}
	j.mu.Unlock()
}

func (j *Journal) Version(k Kind) uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.versions[k]
}

// Versions returns a copy of every non-zero counter keyed by kind name.
func (j *Journal) Versions() map[string]uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make(map[string]uint64, len(j.versions))
	for k, v := range j.versions {
		out[k.String()] = v
	}
	return out
}

func (j *Journal) snapshot(kinds map[Kind]bool) map[Kind]uint64 {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make(map[Kind]uint64, len(kinds))
	for k := range kinds {
		out[k] = j.versions[k]
	}
	return out
}
