// Package caching provides application-wide caching and related utilities.
package caching

import "sync"

// SaveLock ensures only one save runs for a given document at a time.
// A second caller is turned away rather than queued.
type SaveLock struct {
	mu    sync.Mutex
	locks map[string]struct{}
}

// NewSaveLock creates an empty lock set
func NewSaveLock() *SaveLock {
	return &SaveLock{locks: make(map[string]struct{})}
}

// TryLock acquires key without blocking and reports whether it succeeded
func (l *SaveLock) TryLock(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, held := l.locks[key]; held {
		return false
	}
	l.locks[key] = struct{}{}
	return true
}

// Unlock releases key. Call it with defer after a successful TryLock.
func (l *SaveLock) Unlock(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, key)
}
