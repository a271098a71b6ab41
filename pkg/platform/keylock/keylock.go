// Package keylock provides non-blocking per-key mutual exclusion.
//
// Unlike a single busy flag, unrelated keys never block each other: two
// decryption sessions for different records proceed concurrently while a
// second session for the same record is rejected up front.
package keylock

import "sync"

// KeyLock tracks held keys. The zero value is not usable; call New.
type KeyLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func New() *KeyLock {
	return &KeyLock{held: make(map[string]struct{})}
}

// TryAcquire attempts to take the lock for key without blocking.
// Returns false if the key is already held.
func (l *KeyLock) TryAcquire(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, busy := l.held[key]; busy {
		return false
	}
	l.held[key] = struct{}{}
	return true
}

// Release frees the lock for key. Releasing a key that is not held is a no-op.
func (l *KeyLock) Release(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
}

// Held reports whether key is currently locked.
func (l *KeyLock) Held(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, busy := l.held[key]
	return busy
}
