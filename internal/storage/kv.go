package storage

import (
	"context"
	"sync"
)

// KV is the persistence collaborator: a key-value store holding whole
// JSON documents. There is no transaction concept finer than replacing a
// document wholesale; last write wins.
type KV interface {
	// Get returns the raw document and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set overwrites the document for key.
	Set(ctx context.Context, key, value string) error
}

// MemoryStore is an in-memory KV used in tests and as a throwaway
// backend when no database path is configured.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}
