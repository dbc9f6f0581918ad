package kvstore

import (
	"sync"
)

// DefaultQuota mirrors the ~5MB capacity of a browser origin store.
const DefaultQuota = 5 * 1024 * 1024

// MemoryStore is an in-memory Store with a byte quota. It is the
// backend used in tests and when no durable driver is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string]string
	used  int
	quota int
	subs  []func(Event)
}

// NewMemoryStore creates a MemoryStore with the default quota.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithQuota(DefaultQuota)
}

// NewMemoryStoreWithQuota creates a MemoryStore holding at most
// quota bytes of keys plus values. A quota of 0 means unlimited.
func NewMemoryStoreWithQuota(quota int) *MemoryStore {
	return &MemoryStore{
		data:  make(map[string]string),
		quota: quota,
	}
}

// Get returns the value for key and whether it was present.
func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// Set writes value under key. It returns ErrQuotaExceeded when the
// write would push the store past its quota; the previous value (if
// any) is kept in that case.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	prev, existed := m.data[key]
	next := m.used + len(key) + len(value)
	if existed {
		next -= len(key) + len(prev)
	}
	if m.quota > 0 && next > m.quota {
		m.mu.Unlock()
		return ErrQuotaExceeded
	}
	m.data[key] = value
	m.used = next
	m.mu.Unlock()

	m.notify(Event{Key: key, Op: OpSet})
	return nil
}

// Remove deletes key.
func (m *MemoryStore) Remove(key string) {
	m.mu.Lock()
	prev, existed := m.data[key]
	if existed {
		delete(m.data, key)
		m.used -= len(key) + len(prev)
	}
	m.mu.Unlock()

	if existed {
		m.notify(Event{Key: key, Op: OpRemove})
	}
}

// Keys returns all keys currently present.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}

// Subscribe registers fn on the change feed.
func (m *MemoryStore) Subscribe(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

func (m *MemoryStore) notify(ev Event) {
	m.mu.RLock()
	subs := make([]func(Event), len(m.subs))
	copy(subs, m.subs)
	m.mu.RUnlock()
	for _, fn := range subs {
		fn(ev)
	}
}
