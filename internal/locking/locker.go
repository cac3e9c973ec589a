// Package locking serializes the load-mutate-save cycle of the record store.
package locking

import (
	"context"
	"sync"
)

// Locker runs fn while holding the named lock.
type Locker interface {
	WithLock(ctx context.Context, name string, fn func(ctx context.Context) error) error
}

// LocalLocker is an in-process Locker keyed by name.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]chan struct{})}
}

func (l *LocalLocker) WithLock(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	sem := l.semaphore(name)

	// a buffered channel instead of sync.Mutex so waiting honours ctx
	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-sem }()

	return fn(ctx)
}

func (l *LocalLocker) semaphore(name string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	sem, ok := l.locks[name]
	if !ok {
		sem = make(chan struct{}, 1)
		l.locks[name] = sem
	}
	return sem
}
