package usecase

import "sync"

// KeyLocks provides one exclusive lock per content id. The registry and
// the ledger share a single instance so a revision snapshot stays
// consistent with the mutation that follows it.
type KeyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyLocks creates an empty lock set.
func NewKeyLocks() *KeyLocks {
	return &KeyLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the lock for key, creating it on first use.
func (k *KeyLocks) Lock(key string) {
	k.get(key).Lock()
}

// Unlock releases the lock for key.
func (k *KeyLocks) Unlock(key string) {
	k.get(key).Unlock()
}

func (k *KeyLocks) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	return l
}
