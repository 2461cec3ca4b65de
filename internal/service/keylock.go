package service

import "sync"

// keyLock выдаёт мьютекс на ключ и удаляет его, когда ключ больше никто не держит
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*keyLockEntry
}

type keyLockEntry struct {
	mu      sync.Mutex
	holders int
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*keyLockEntry)}
}

// Lock блокирует ключ и возвращает функцию разблокировки
func (k *keyLock) Lock(key string) func() {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &keyLockEntry{}
		k.locks[key] = entry
	}
	entry.holders++
	k.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		k.mu.Lock()
		entry.holders--
		if entry.holders == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
