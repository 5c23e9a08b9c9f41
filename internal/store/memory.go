package store

import (
	"context"
	"sync"
)

type memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns a process-local backend. Nothing survives a restart.
func NewMemory() Backend {
	return &memory{data: map[string][]byte{}}
}

func memKey(namespace, key string) string { return namespace + "\x00" + key }

func (m *memory) Get(_ context.Context, namespace, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[memKey(namespace, key)]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *memory) Put(_ context.Context, namespace, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[memKey(namespace, key)] = append([]byte(nil), value...)
	return nil
}

func (m *memory) Delete(_ context.Context, namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, memKey(namespace, key))
	return nil
}

func (m *memory) Close() error { return nil }
