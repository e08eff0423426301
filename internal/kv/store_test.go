package kv

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb, "seeker:"), mr
}

func backends(t *testing.T) map[string]Store {
	fs, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	rs, _ := newRedisStore(t)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
		"redis":  rs,
	}
}

func TestStore_GetSetRemove(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := s.Get(ctx, KeyPlaylists)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Set(ctx, KeyPlaylists, `[{"id":"1"}]`))
			v, ok, err := s.Get(ctx, KeyPlaylists)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[{"id":"1"}]`, v)

			require.NoError(t, s.Set(ctx, KeyPlaylists, `[]`))
			v, _, _ = s.Get(ctx, KeyPlaylists)
			assert.Equal(t, `[]`, v)

			require.NoError(t, s.Remove(ctx, KeyPlaylists))
			_, ok, err = s.Get(ctx, KeyPlaylists)
			require.NoError(t, err)
			assert.False(t, ok)

			// removing an absent key is fine
			assert.NoError(t, s.Remove(ctx, KeyPlaylists))
		})
	}
}

func TestStore_KeysAreIndependent(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Set(ctx, KeyUsers, `{"a@b.c":"pw"}`))
			require.NoError(t, s.Set(ctx, KeyUserToken, `a@b.c`))
			require.NoError(t, s.Remove(ctx, KeyUserToken))

			v, ok, err := s.Get(ctx, KeyUsers)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"a@b.c":"pw"}`, v)
		})
	}
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Set(ctx, "k", "v"), context.Canceled)
	_, _, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	a, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, a.Set(ctx, KeyDarkMode, "true"))

	b, err := NewFileStore(dir)
	require.NoError(t, err)
	v, ok, err := b.Get(ctx, KeyDarkMode)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestRedisStore_Prefix(t *testing.T) {
	s, mr := newRedisStore(t)
	require.NoError(t, s.Set(context.Background(), KeyRatings, `{"1":5}`))

	got, err := mr.Get("seeker:ratings")
	require.NoError(t, err)
	assert.Equal(t, `{"1":5}`, got)
}

func TestRedisStore_CompareAndSet(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	ok, err := s.CompareAndSet(ctx, KeyRatings, "", false, `{"1":3}`)
	require.NoError(t, err)
	assert.True(t, ok)

	// stale base: someone else wrote in between
	mr.Set("seeker:ratings", `{"1":4}`)
	ok, err = s.CompareAndSet(ctx, KeyRatings, `{"1":3}`, true, `{"1":5}`)
	require.NoError(t, err)
	assert.False(t, ok)

	v, _, _ := s.Get(ctx, KeyRatings)
	assert.Equal(t, `{"1":4}`, v)

	ok, err = s.CompareAndSet(ctx, KeyRatings, `{"1":4}`, true, `{"1":5}`)
	require.NoError(t, err)
	assert.True(t, ok)
}
