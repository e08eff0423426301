package kv

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_SerializesSameKey(t *testing.T) {
	q := NewQueue()
	var inFlight, maxInFlight int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = q.Do(context.Background(), KeyPlaylists, func(context.Context) error {
				n := atomic.AddInt32(&inFlight, 1)
				for {
					m := atomic.LoadInt32(&maxInFlight)
					if n <= m || atomic.CompareAndSwapInt32(&maxInFlight, m, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inFlight, -1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInFlight)
	assert.Equal(t, 0, q.active(), "idle lanes are released")
}

func TestQueue_DifferentKeysDoNotBlock(t *testing.T) {
	q := NewQueue()
	hold := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = q.Do(context.Background(), KeyPlaylists, func(context.Context) error {
			close(started)
			<-hold
			return nil
		})
	}()
	<-started

	done := make(chan struct{})
	go func() {
		_ = q.Do(context.Background(), KeyRatings, func(context.Context) error { return nil })
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("ratings lane blocked by playlists lane")
	}
	close(hold)
}

func TestQueue_WaiterHonoursContext(t *testing.T) {
	q := NewQueue()
	hold := make(chan struct{})
	started := make(chan struct{})

	go func() {
		_ = q.Do(context.Background(), KeyPlaylists, func(context.Context) error {
			close(started)
			<-hold
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	ran := false
	err := q.Do(ctx, KeyPlaylists, func(context.Context) error {
		ran = true
		return nil
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ran)
	close(hold)
}
