package session

import (
	"context"
	"sync"
	"time"
)

const cleanupInterval = 1 * time.Minute

// MemoryStore implementa Store con un map en memoria. Es la implementación
// por defecto; el estado se pierde al reiniciar el proceso.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry

	done      chan struct{}
	closeOnce sync.Once
}

type memoryEntry struct {
	data     *Entry
	expireAt time.Time
}

// NewMemoryStore crea el store y arranca el goroutine de limpieza de
// entradas expiradas. El caller debe llamar Close() al terminar para
// detenerlo.
func NewMemoryStore() *MemoryStore {
	ms := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		done:    make(chan struct{}),
	}
	go ms.cleanupLoop()
	return ms
}

// Close detiene el goroutine de limpieza. Idempotente; las operaciones del
// store siguen funcionando después.
func (ms *MemoryStore) Close() {
	ms.closeOnce.Do(func() { close(ms.done) })
}

func (ms *MemoryStore) Save(ctx context.Context, key string, entry *Entry, ttl time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	expireAt := time.Now().Add(ttl)
	entry.ExpireAt = expireAt
	ms.entries[key] = &memoryEntry{data: entry, expireAt: expireAt}
	return nil
}

func (ms *MemoryStore) Get(ctx context.Context, key string) (*Entry, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	e, ok := ms.entries[key]
	if !ok {
		return nil, nil
	}
	// No borra aquí para no tomar el write lock; el cleanup loop se encarga.
	if time.Now().After(e.expireAt) {
		return nil, nil
	}
	return e.data, nil
}

func (ms *MemoryStore) Delete(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.entries, key)
	return nil
}

func (ms *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ms.done:
			return
		case <-ticker.C:
			now := time.Now()
			ms.mu.Lock()
			for key, e := range ms.entries {
				if now.After(e.expireAt) {
					delete(ms.entries, key)
				}
			}
			ms.mu.Unlock()
		}
	}
}
