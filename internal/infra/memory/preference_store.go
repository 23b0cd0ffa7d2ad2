package memory

import (
	"context"
	"sync"
)

// PreferenceStore is an in-memory implementation of app.PreferenceStore.
type PreferenceStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{values: make(map[string]string)}
}

func (s *PreferenceStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok, nil
}

func (s *PreferenceStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
