package kvstore

import (
	"context"
	"sync"
)

// MemoryStore keeps collections in process memory. The default backend
// for development and tests. The mutex guards map integrity only;
// read-modify-write sequences are not atomic across callers, same as
// the other backends.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(stored))
	copy(out, stored)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = stored
	return nil
}
