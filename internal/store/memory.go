package store

import (
	"bytes"
	"sort"
	"sync"

	"nicks/internal/models"
)

type MemoryStore struct {
	mu      sync.RWMutex
	data    map[models.AccountID][]byte
	version models.SchemaVersion
	closed  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[models.AccountID][]byte),
	}
}

func (m *MemoryStore) Get(key models.AccountID) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	val, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBytes(val), nil
}

func (m *MemoryStore) Put(key models.AccountID, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.data[key] = cloneBytes(value)
	return nil
}

func (m *MemoryStore) Delete(key models.AccountID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.data, key)
	return nil
}

func (m *MemoryStore) Keys() ([]models.AccountID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	return m.sortedKeys(), nil
}

// Iterate visits a point-in-time copy of the entries, so fn may write to
// the store.
func (m *MemoryStore) Iterate(fn func(key models.AccountID, value []byte) error) error {
	m.mu.RLock()
	if m.closed {
		m.mu.RUnlock()
		return ErrClosed
	}
	keys := m.sortedKeys()
	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = cloneBytes(m.data[k])
	}
	m.mu.RUnlock()

	for i, k := range keys {
		if err := fn(k, values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryStore) Count() (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, ErrClosed
	}
	return uint64(len(m.data)), nil
}

func (m *MemoryStore) OnchainVersion() (models.SchemaVersion, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return 0, ErrClosed
	}
	return m.version, nil
}

func (m *MemoryStore) PutOnchainVersion(v models.SchemaVersion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.version = v
	return nil
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// sortedKeys must be called under m.mu.
func (m *MemoryStore) sortedKeys() []models.AccountID {
	keys := make([]models.AccountID, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	return keys
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
