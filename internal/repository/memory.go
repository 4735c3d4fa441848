package repository

import (
	"context"
	"sync"
)

// MemoryStore keeps collections in a map. It backs tests and the testing
// environment.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.values[key]
	return value, ok, nil
}

// Set stores value under key.
func (m *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (m *MemoryStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Update stages writes made through tx and applies them only if fn succeeds.
func (m *MemoryStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{base: m.values, staged: make(map[string]*string)}
	if err := fn(tx); err != nil {
		return err
	}
	for key, value := range tx.staged {
		if value == nil {
			delete(m.values, key)
			continue
		}
		m.values[key] = *value
	}
	return nil
}

// Close is a no-op.
func (m *MemoryStore) Close() error {
	return nil
}

// Len returns the number of stored keys.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}

// memoryTx overlays staged writes on the committed map. A nil staged value
// marks a removal.
type memoryTx struct {
	base   map[string]string
	staged map[string]*string
}

func (tx *memoryTx) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if value, ok := tx.staged[key]; ok {
		if value == nil {
			return "", false, nil
		}
		return *value, true, nil
	}
	value, ok := tx.base[key]
	return value, ok, nil
}

func (tx *memoryTx) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.staged[key] = &value
	return nil
}

func (tx *memoryTx) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx.staged[key] = nil
	return nil
}
