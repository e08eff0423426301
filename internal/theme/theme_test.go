package theme

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoldSenseiBoi/iTunesSeeker/internal/kv"
	"github.com/GoldSenseiBoi/iTunesSeeker/internal/viewsync"
)

func TestDark_DefaultsOff(t *testing.T) {
	s := NewSettings(kv.NewMemoryStore(), kv.NewQueue(), nil)
	dark, err := s.Dark(context.Background())
	require.NoError(t, err)
	assert.False(t, dark)
}

func TestDark_OnlyExactTrue(t *testing.T) {
	backing := kv.NewMemoryStore()
	s := NewSettings(backing, kv.NewQueue(), nil)
	ctx := context.Background()

	require.NoError(t, backing.Set(ctx, kv.KeyDarkMode, "TRUE"))
	dark, _ := s.Dark(ctx)
	assert.False(t, dark)

	require.NoError(t, backing.Set(ctx, kv.KeyDarkMode, "true"))
	dark, _ = s.Dark(ctx)
	assert.True(t, dark)
}

func TestToggle(t *testing.T) {
	backing := kv.NewMemoryStore()
	j := viewsync.NewJournal()
	s := NewSettings(backing, kv.NewQueue(), j)
	ctx := context.Background()

	dark, err := s.Toggle(ctx)
	require.NoError(t, err)
	assert.True(t, dark)
	raw, _, _ := backing.Get(ctx, kv.KeyDarkMode)
	assert.Equal(t, "true", raw)

	dark, err = s.Toggle(ctx)
	require.NoError(t, err)
	assert.False(t, dark)

	require.NoError(t, s.Set(ctx, false))
	assert.Equal(t, uint64(2), j.Version(viewsync.ThemeChanged))
	assert.Equal(t, Light, PaletteFor(false))
	assert.Equal(t, Dark, PaletteFor(true))
}

func TestToggle_Concurrent(t *testing.T) {
	s := NewSettings(kv.NewMemoryStore(), kv.NewQueue(), nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Toggle(ctx)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	dark, _ := s.Dark(ctx)
	assert.False(t, dark, "an even number of toggles ends where it started")
}

// flippingStore lets another process flip the flag right before the first
// `flips` compare-and-set calls.
type flippingStore struct {
	*kv.MemoryStore
	flips int
}

func (f *flippingStore) CompareAndSet(ctx context.Context, key, old string, oldOK bool, value string) (bool, error) {
	cur, ok, err := f.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if f.flips > 0 {
		f.flips--
		cur = strconv.FormatBool(cur != "true")
		ok = true
		if err := f.Set(ctx, key, cur); err != nil {
			return false, err
		}
	}
	if cur != old || ok != oldOK {
		return false, nil
	}
	return true, f.Set(ctx, key, value)
}

func TestToggle_SharedStoreRereadsAfterLostRace(t *testing.T) {
	backing := &flippingStore{MemoryStore: kv.NewMemoryStore(), flips: 1}
	j := viewsync.NewJournal()
	s := NewSettings(backing, kv.NewQueue(), j)
	ctx := context.Background()

	dark, err := s.Toggle(ctx)
	require.NoError(t, err)
	assert.False(t, dark, "the other process turned it on, so this toggle turns it off")
	raw, _, _ := backing.Get(ctx, kv.KeyDarkMode)
	assert.Equal(t, "false", raw)
	assert.Equal(t, uint64(1), j.Version(viewsync.ThemeChanged))
}

func TestToggle_SharedStoreGivesUp(t *testing.T) {
	backing := &flippingStore{MemoryStore: kv.NewMemoryStore(), flips: kv.MaxSwapAttempts}
	s := NewSettings(backing, kv.NewQueue(), nil)

	_, err := s.Toggle(context.Background())
	assert.ErrorIs(t, err, kv.ErrConflict)
}
