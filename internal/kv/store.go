// Package kv is the persistence layer: a string key-value store with no
// cross-key transactions, a per-key single-writer queue, and typed JSON
// collections that read, mutate and write back a whole value under one key.
package kv

import (
	"context"
	"errors"
)

// Persisted keys. Each holds the full JSON encoding of its collection.
const (
	KeyUsers     = "users"
	KeyUserToken = "userToken"
	KeyDarkMode  = "darkMode"
	KeyPlaylists = "playlists"
	KeyRatings   = "ratings"
)

var (
	// ErrCorrupt is returned when a stored value cannot be decoded.
	ErrCorrupt = errors.New("kv: corrupt value")
	// ErrConflict is returned when an optimistic update keeps losing races.
	ErrConflict = errors.New("kv: too many conflicting writers")
)

// Store is the contract every backend implements. Values are opaque strings.
// Each call is atomic on its own; two Sets on the same key race and the last
// one wins.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Swapper is implemented by backends shared between processes. CompareAndSet
// writes value only if the key still holds old (or is still absent when
// oldOK is false) and reports whether the write happened.
type Swapper interface {
	CompareAndSet(ctx context.Context, key, old string, oldOK bool, value string) (bool, error)
}
