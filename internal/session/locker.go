package session

import (
	"context"
	"fmt"
	"sync"
)

// locker serializes operations per session ID. Operations on distinct IDs
// never block one another. Entries are reference counted so the map does
// not grow with dead session IDs.
type locker struct {
	mu    sync.Mutex
	locks map[string]*keyMutex
}

type keyMutex struct {
	mu   sync.Mutex
	refs int
}

func newLocker() *locker {
	return &locker{locks: make(map[string]*keyMutex)}
}

// acquire blocks until the per-ID lock is held or ctx is cancelled. The
// returned release function MUST be called when the operation completes.
func (l *locker) acquire(ctx context.Context, id string) (release func(), err error) {
	l.mu.Lock()
	km, ok := l.locks[id]
	if !ok {
		km = &keyMutex{}
		l.locks[id] = km
	}
	km.refs++
	l.mu.Unlock()

	done := make(chan struct{})
	go func() {
		km.mu.Lock()
		close(done)
	}()

	select {
	case <-done:
		return func() {
			km.mu.Unlock()
			l.release(id, km)
		}, nil
	case <-ctx.Done():
		// The goroutine will still take the lock eventually; hand it
		// straight back so the mutex is never held by a dead owner.
		go func() {
			<-done
			km.mu.Unlock()
			l.release(id, km)
		}()
		return nil, fmt.Errorf("session lock %q: %w", id, ctx.Err())
	}
}

func (l *locker) release(id string, km *keyMutex) {
	l.mu.Lock()
	km.refs--
	if km.refs == 0 {
		delete(l.locks, id)
	}
	l.mu.Unlock()
}

// active returns the number of IDs with held or pending locks. For tests.
func (l *locker) active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
