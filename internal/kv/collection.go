package kv

import (
	"context"
	"encoding/json"
	"fmt"
)

const MaxSwapAttempts = 8

// Collection is a typed JSON value stored whole under one key.
type Collection[T any] struct {
	store Store
	queue *Queue
	key   string
	empty func() T
}

// NewCollection binds key to T. empty builds the value used when the key is
// absent; it must return a fresh value on every call.
func NewCollection[T any](store Store, queue *Queue, key string, empty func() T) *Collection[T] {
	return &Collection[T]{store: store, queue: queue, key: key, empty: empty}
}

func (c *Collection[T]) Key() string { return c.key }

// Load reads and decodes the whole collection.
func (c *Collection[T]) Load(ctx context.Context) (T, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.decode(raw, ok)
}

// Update loads the collection, hands it to fn and writes the result back if
// fn reports a change. The whole cycle holds the key's lane, so concurrent
// Updates on one key never lose each other's writes. On a Swapper backend
// the write is a compare-and-set and fn may run again on a fresh copy when
// another process got there first.
func (c *Collection[T]) Update(ctx context.Context, fn func(v *T) (bool, error)) (bool, error) {
	changed := false
	err := c.queue.Do(ctx, c.key, func(ctx context.Context) error {
		swapper, shared := c.store.(Swapper)
		for attempt := 0; attempt < MaxSwapAttempts; attempt++ {
			raw, ok, err := c.store.Get(ctx, c.key)
			if err != nil {
				return err
			}
			v, err := c.decode(raw, ok)
			if err != nil {
				return err
			}
			dirty, err := fn(&v)
			if err != nil || !dirty {
				return err
			}
			enc, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("kv: encode %s: %w", c.key, err)
			}

			if !shared {
				if err := c.store.Set(ctx, c.key, string(enc)); err != nil {
					return err
				}
				changed = true
				return nil
			}
			swapped, err := swapper.CompareAndSet(ctx, c.key, raw, ok, string(enc))
			if err != nil {
				return err
			}
			if swapped {
				changed = true
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrConflict, c.key)
	})
	return changed, err
}

func (c *Collection[T]) decode(raw string, ok bool) (T, error) {
	v := c.empty()
	if !ok || raw == "" || raw == "null" {
		return v, nil
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %s: %v", ErrCorrupt, c.key, err)
	}
	return v, nil
}
