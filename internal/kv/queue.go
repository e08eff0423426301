package kv

import (
	"context"
	"sync"
)

// Queue serializes work per key: at most one function runs for a given key at
// a time, and waiters are admitted one by one. Different keys never block
// each other.
type Queue struct {
	mu    sync.Mutex
	lanes map[string]*lane
}

type lane struct {
	sem  chan struct{}
	refs int
}

func NewQueue() *Queue {
	return &Queue{lanes: make(map[string]*lane)}
}

// Do runs fn while holding key's lane. If ctx is done before the lane frees
// up, fn is not run and ctx.Err() is returned.
func (q *Queue) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	l := q.join(key)
	defer q.leave(key, l)

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-l.sem }()

	return fn(ctx)
}

func (q *Queue) join(key string) *lane {
	q.mu.Lock()
	defer q.mu.Unlock()
	l, ok := q.lanes[key]
	if !ok {
		l = &lane{sem: make(chan struct{}, 1)}
		q.lanes[key] = l
	}
	l.refs++
	return l
}

func (q *Queue) leave(key string, l *lane) {
	q.mu.Lock()
	defer q.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(q.lanes, key)
	}
}

// active reports the number of keys with callers in flight or waiting.
func (q *Queue) active() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lanes)
}
