package kvstore

import (
	"context"
	"sync"
)

// MemoryStore keeps entries in a map. It's used when no passphrase is
// configured (nothing survives a restart) and by tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
	SetErr  error
	GetErr  error
	Writes  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetErr != nil {
		return nil, m.GetErr
	}

	value, ok := m.entries[key]
	if !ok {
		return nil, ErrKeyNotFound
	}

	return append([]byte(nil), value...), nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetErr != nil {
		return m.SetErr
	}

	m.entries[key] = append([]byte(nil), value...)
	m.Writes++
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}
