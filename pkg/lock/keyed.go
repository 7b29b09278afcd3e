package lock

import (
	"sync"

	"github.com/google/uuid"
)

// Keyed hands out one mutex per key so operations on different trips run
// in parallel while operations on the same trip serialize. Mutexes are
// created lazily and kept for the process lifetime; the working set is
// bounded by the number of live trips.
type Keyed struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (k *Keyed) get(key uuid.UUID) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// Lock acquires the mutex for key, blocking until it is free.
func (k *Keyed) Lock(key uuid.UUID) {
	k.get(key).Lock()
}

// Unlock releases the mutex for key.
func (k *Keyed) Unlock(key uuid.UUID) {
	k.get(key).Unlock()
}

// Do runs fn while holding the key's mutex. The lock covers only the
// critical read-modify-write span, never a whole request.
func (k *Keyed) Do(key uuid.UUID, fn func() error) error {
	m := k.get(key)
	m.Lock()
	defer m.Unlock()
	return fn()
}
