package engine

import (
	"context"
	"sync"

	"studyforge/internal/storage"
)

// MemoryStore keeps the record in process memory. Load and Save exchange copies.
type MemoryStore struct {
	mu    sync.Mutex
	rec   *storage.Progression
	saves int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (*storage.Progression, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, p *storage.Progression) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = p.Clone()
	s.saves++
	return nil
}

// Saves counts successful Save calls.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
