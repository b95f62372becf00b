package kvstore

import (
	"context"
	"sync"
)

// Memory implements Store using an in-memory map. It is the default backend
// and the primary test double.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var (
	_ Store   = (*Memory)(nil)
	_ Clearer = (*Memory)(nil)
)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		values: make(map[string][]byte),
	}
}

// Get retrieves the value stored under key.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)
	return valueCopy, nil
}

// Set stores value under key.
func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = valueCopy
	return nil
}

// Remove deletes key. Missing keys are ignored.
func (m *Memory) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// RemoveAll deletes every key in keys.
func (m *Memory) RemoveAll(ctx context.Context, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

// ListKeys returns all keys currently present.
func (m *Memory) ListKeys(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.values))
	for key := range m.values {
		keys = append(keys, key)
	}
	return keys, nil
}

// Clear removes every key in one operation.
func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values = make(map[string][]byte)
	return nil
}
