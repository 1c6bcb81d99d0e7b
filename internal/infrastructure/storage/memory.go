package storage

import (
	"context"
	"sync"
)

// Memory keeps values in process memory
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
