// Package keylock provides per-key mutual exclusion. The progression and task
// use cases serialize all read-modify-write sequences for one user through a
// single lock, which keeps the daily cap and the reward idempotency gates
// correct under concurrent requests.
package keylock

import "sync"

// KeyLock hands out one mutex per key. Locks are never evicted; the key space
// is bounded by the active user population of a single process.
type KeyLock struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates an empty KeyLock.
func New() *KeyLock {
	return &KeyLock{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *KeyLock) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
