package storage

import (
	"sort"
	"sync"
)

// MemoryKV keeps values in a map. It is the KV used by tests and by
// callers that want a throwaway store.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
	// FailWrites makes Set and Delete return ErrWriteFailed, simulating a
	// full or read-only disk.
	FailWrites bool
	// FailReads makes the next FailReads calls to Get return ErrReadFailed,
	// simulating a locked database.
	FailReads int
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Init() error  { return nil }
func (m *MemoryKV) Load() error  { return nil }
func (m *MemoryKV) Close() error { return nil }

func (m *MemoryKV) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads > 0 {
		m.FailReads--
		return nil, false, ErrReadFailed
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrWriteFailed
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return ErrWriteFailed
	}
	delete(m.data, key)
	return nil
}

func (m *MemoryKV) Keys() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryKV) GetConfigPath() string {
	return ":memory:"
}
