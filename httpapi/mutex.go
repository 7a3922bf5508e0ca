package httpapi

import "sync"

// keyedMutex serializes work per key. The chat endpoint locks on the
// user ID around each turn so one user's concurrent requests cannot
// interleave their context read-modify-write.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

// lock acquires the key's mutex and returns the matching release.
// Locks are reference counted and dropped from the table once the last
// holder releases.
func (km *keyedMutex) lock(key string) (release func()) {
	km.mu.Lock()
	l, ok := km.locks[key]
	if !ok {
		l = &keyedLock{}
		km.locks[key] = l
	}
	l.refs++
	km.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		km.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(km.locks, key)
		}
		km.mu.Unlock()
	}
}
