// Package executor serializes all work for a given entity identity. Every
// command and query routed through the same key runs one at a time, in arrival
// order, to completion; this is what makes "append one event, then read
// consistent state" safe without locks in the entity code itself.
package executor

import (
	"context"
	"sync"
)

// Directory routes work to per-key serial executors, creating them on first
// use and retiring them once idle.
type Directory struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	sem  chan struct{}
	refs int
}

// NewDirectory creates an empty executor directory.
func NewDirectory() *Directory {
	return &Directory{
		slots: make(map[string]*slot),
	}
}

// Do runs fn under the key's executor. Callers waiting for the slot observe
// context cancellation; once fn starts it runs to completion.
func (d *Directory) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	s := d.acquire(key)
	defer d.release(key, s)

	select {
	case s.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-s.sem }()

	return fn(ctx)
}

// Len reports how many executors are currently live, for tests and metrics.
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.slots)
}

func (d *Directory) acquire(key string) *slot {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.slots[key]
	if !ok {
		s = &slot{sem: make(chan struct{}, 1)}
		d.slots[key] = s
	}
	s.refs++
	return s
}

func (d *Directory) release(key string, s *slot) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(d.slots, key)
	}
}
