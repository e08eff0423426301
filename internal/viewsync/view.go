package viewsync

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Loader re-reads whatever a view shows. On error the view keeps its
// previous state.
type Loader func(ctx context.Context) error

// Contract hands out views that share one Journal.
type Contract struct {
	journal *Journal
	log     *zap.Logger
}

func NewContract(journal *Journal, log *zap.Logger) *Contract {
	if log == nil {
		log = zap.NewNop()
	}
	return &Contract{journal: journal, log: log}
}

func (c *Contract) Journal() *Journal { return c.journal }

// NewView declares a view and the mutation kinds that invalidate it.
func (c *Contract) NewView(name string, load Loader, deps ...Kind) *View {
	d := make(map[Kind]bool, len(deps))
	for _, k := range deps {
		d[k] = true
	}
	return &View{
		name:    name,
		deps:    d,
		load:    load,
		journal: c.journal,
		log:     c.log.With(zap.String("view", name)),
	}
}

type View struct {
	name    string
	deps    map[Kind]bool
	load    Loader
	journal *Journal
	log     *zap.Logger

	mu      sync.Mutex
	mounted bool
	gen     uint64
	seen    map[Kind]uint64
	loads   int
}

func (v *View) Name() string { return v.name }

// Mount loads the view the first time it is shown. Later calls are no-ops
// until Unmount.
func (v *View) Mount(ctx context.Context) error {
	v.mu.Lock()
	if v.mounted {
		v.mu.Unlock()
		return nil
	}
	v.mounted = true
	v.gen++
	v.mu.Unlock()
	return v.reload(ctx, "mount")
}

// Focus reloads unconditionally; no cached value survives a navigation
// round-trip.
func (v *View) Focus(ctx context.Context) error {
	v.mu.Lock()
	v.mounted = true
	v.gen++
	v.mu.Unlock()
	return v.reload(ctx, "focus")
}

// Blur invalidates outstanding tickets.
func (v *View) Blur() {
	v.mu.Lock()
	v.gen++
	v.mu.Unlock()
}

// Unmount invalidates outstanding tickets and lets the next Mount load again.
func (v *View) Unmount() {
	v.mu.Lock()
	v.mounted = false
	v.gen++
	v.mu.Unlock()
}

// AfterLocalMutation reloads the view if it depends on kind. The reload reads
// the store instead of trusting the caller's in-memory result.
func (v *View) AfterLocalMutation(ctx context.Context, kind Kind) error {
	if !v.deps[kind] {
		return nil
	}
	return v.reload(ctx, "mutation:"+kind.String())
}

// DependsOn reports whether kind invalidates the view.
func (v *View) DependsOn(kind Kind) bool { return v.deps[kind] }

// Stale reports whether a mutation of a kind the view depends on was
// recorded since its last successful load.
func (v *View) Stale() bool {
	v.mu.Lock()
	seen := v.seen
	v.mu.Unlock()
	if seen == nil {
		return true
	}
	now := v.journal.snapshot(v.deps)
	for k, ver := range now {
		if ver != seen[k] {
			return true
		}
	}
	return false
}

// Loads counts successful loads.
func (v *View) Loads() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loads
}

func (v *View) reload(ctx context.Context, reason string) error {
	snap := v.journal.snapshot(v.deps)
	if err := v.load(ctx); err != nil {
		v.log.Warn("view reload failed", zap.String("reason", reason), zap.Error(err))
		return fmt.Errorf("view %s: %w", v.name, err)
	}
	v.mu.Lock()
	v.seen = snap
	v.loads++
	v.mu.Unlock()
	v.log.Debug("view reloaded", zap.String("reason", reason))
	return nil
}

// Ticket ties an asynchronous result to the view generation that asked for
// it.
type Ticket struct {
	v   *View
	gen uint64
}

// Begin is called before starting a request whose result may land after the
// user has moved on.
func (v *View) Begin() Ticket {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Ticket{v: v, gen: v.gen}
}

// Current reports whether the view is still in the generation that issued t.
func (t Ticket) Current() bool {
	t.v.mu.Lock()
	defer t.v.mu.Unlock()
	return t.v.mounted && t.v.gen == t.gen
}

// Apply runs fn only if t is still current and reports whether it ran. A
// stale result is dropped silently. fn must not call back into the view.
func (t Ticket) Apply(fn func()) bool {
	t.v.mu.Lock()
	defer t.v.mu.Unlock()
	if !t.v.mounted || t.v.gen != t.gen {
		return false
	}
	fn()
	return true
}
