package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	body      []byte
	expiresAt time.Time
}

type MemoryStore struct {
	mu    sync.Mutex
	pages map[string]map[string]memoryEntry
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pages: make(map[string]map[string]memoryEntry),
		now:   time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, path, variant string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.pages[path][variant]
	if !ok {
		return nil, ErrMiss
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.pages[path], variant)
		return nil, ErrMiss
	}
	return entry.body, nil
}

func (s *MemoryStore) Set(_ context.Context, path, variant string, body []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	variants, ok := s.pages[path]
	if !ok {
		variants = make(map[string]memoryEntry)
		s.pages[path] = variants
	}
	variants[variant] = memoryEntry{
		body:      append([]byte(nil), body...),
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore) Purge(_ context.Context, path string) error {
	s.mu.Lock()
	delete(s.pages, path)
	s.mu.Unlock()
	return nil
}
