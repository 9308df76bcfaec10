package kvstore

import (
	"context"
	"sync"
)

// Memory keeps encoded values in a map. Values round-trip through JSON so
// callers never share memory with stored records.
type Memory struct {
	mu     sync.Mutex
	values map[string][]byte
	closed bool
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key Key, dst any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false, ErrClosed
	}
	data, ok := m.values[key.String()]
	if !ok {
		return false, nil
	}
	return true, decodeValue(key, data, dst)
}

func (m *Memory) Set(_ context.Context, key Key, value any) error {
	data, err := encodeValue(key, value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.values[key.String()] = data
	return nil
}

func (m *Memory) Delete(_ context.Context, key Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.values, key.String())
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
