// Package storage provides the key-value persistence behind the cart store.
//
// The backing store is a capability-probed resource: Open attempts a
// throwaway write once at initialization and transparently swaps in an
// in-memory map when the probe fails (read-only filesystems, unreachable
// Redis, sandboxed environments). Callers never learn which backend is live;
// the cart is a convenience cache, not the system of record.
package storage

import (
	"context"
	"log/slog"
	"sync"
)

// Store is a scoped key-value resource.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set writes the value for key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Clear deletes every key in the store's scope.
	Clear(ctx context.Context) error
}

// probeKey is written and removed once by Open to verify the backend accepts
// writes.
const probeKey = "__storage_probe__"

// Open probes primary with a throwaway write and returns it if usable,
// otherwise a fresh in-memory store. A nil primary also yields memory.
func Open(ctx context.Context, primary Store, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.Default()
	}
	if primary == nil {
		return NewMemory()
	}

	if err := primary.Set(ctx, probeKey, []byte("1")); err != nil {
		logger.Warn("storage probe failed, falling back to in-memory store", slog.Any("error", err))
		return NewMemory()
	}
	if err := primary.Remove(ctx, probeKey); err != nil {
		logger.Warn("storage probe cleanup failed, falling back to in-memory store", slog.Any("error", err))
		return NewMemory()
	}
	return primary
}

// Memory is the fallback backend: a map that lives for the process.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.values[key] = v
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = make(map[string][]byte)
	return nil
}
