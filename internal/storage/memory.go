package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Memory is an in-process Store. It loses its contents on exit.
type Memory struct {
	mu    sync.Mutex
	data  map[string]string
	size  int
	quota int
}

// NewMemory creates an empty Memory store limited to quota bytes.
// A quota of zero or less disables the limit.
func NewMemory(quota int) *Memory {
	return &Memory{data: make(map[string]string), quota: quota}
}

// Get returns the value stored under key.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	size := m.size + len(key) + len(value)
	if old, ok := m.data[key]; ok {
		size -= len(key) + len(old)
	}
	if m.quota > 0 && size > m.quota {
		return ErrQuotaExceeded
	}
	m.data[key] = value
	m.size = size
	return nil
}

// Remove deletes key. Removing a missing key is a no-op.
func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.data[key]; ok {
		m.size -= len(key) + len(old)
		delete(m.data, key)
	}
	return nil
}

// Keys returns the sorted keys starting with prefix.
func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
