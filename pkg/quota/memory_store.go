package quota

import (
	"context"
	"sync"
	"sync/atomic"
)

// MemoryStore is the default in-process Store: a map of *int64 counters
// guarded by an RWMutex for structural changes (adding a new key) and
// atomic ops for the hot increment path, mirroring
// original_source/core/quota_manager.py's in-memory _usage dict.
type MemoryStore struct {
	mu       sync.RWMutex
	counters map[CounterKey]*int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[CounterKey]*int64)}
}

func (m *MemoryStore) counterFor(key CounterKey) *int64 {
	m.mu.RLock()
	c, ok := m.counters[key]
	m.mu.RUnlock()
	if ok {
		return c
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.counters[key]; ok {
		return c
	}
	var v int64
	m.counters[key] = &v
	return &v
}

func (m *MemoryStore) Increment(ctx context.Context, key CounterKey, n int64) (int64, error) {
	return atomic.AddInt64(m.counterFor(key), n), nil
}

func (m *MemoryStore) Get(ctx context.Context, key CounterKey) (int64, error) {
	return atomic.LoadInt64(m.counterFor(key)), nil
}

func (m *MemoryStore) ResetPeriod(ctx context.Context, period Period) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for key, counter := range m.counters {
		if key.Period == period {
			atomic.StoreInt64(counter, 0)
		}
	}
	return nil
}
