// Package keymutex provides per-key mutual exclusion, so operations on
// one product serialize without blocking operations on another.
package keymutex

import "sync"

type KeyMutex struct {
	mus sync.Map // key -> *sync.Mutex
}

func New() *KeyMutex {
	return &KeyMutex{}
}

// Lock acquires the mutex for key, creating it on first use. Mutexes are
// never evicted; the population is bounded by the number of distinct keys.
func (m *KeyMutex) Lock(key string) {
	mu, _ := m.mus.LoadOrStore(key, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
}

// Unlock releases the mutex for key. It must follow a Lock for the same
// key on the same goroutine.
func (m *KeyMutex) Unlock(key string) {
	mu, ok := m.mus.Load(key)
	if !ok {
		panic("keymutex: unlock of unknown key " + key)
	}
	mu.(*sync.Mutex).Unlock()
}
