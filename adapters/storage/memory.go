package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"photonic-sparam/internal/errors"
)

// MemoryStore is an in-memory storage backend
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*StoredRun
}

// NewMemoryStore creates a memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		runs: make(map[string]*StoredRun),
	}
}

// Save implements Store
func (s *MemoryStore) Save(ctx context.Context, run *StoredRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	stored := *run
	s.runs[run.ID] = &stored
	return nil
}

// Get implements Store
func (s *MemoryStore) Get(ctx context.Context, id string) (*StoredRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, errors.NotFound("run", id)
	}
	copied := *run
	return &copied, nil
}

// List implements Store
func (s *MemoryStore) List(ctx context.Context, filter *ListFilter) ([]*StoredRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]*StoredRun, 0, len(s.runs))
	for _, run := range s.runs {
		if !filter.matches(run) {
			continue
		}
		copied := *run
		runs = append(runs, &copied)
	}

	sort.Slice(runs, func(i, j int) bool {
		if runs[i].CreatedAt.Equal(runs[j].CreatedAt) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})

	return filter.window(runs), nil
}

// Delete implements Store
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[id]; !ok {
		return errors.NotFound("run", id)
	}
	delete(s.runs, id)
	return nil
}

// Close implements Store
func (s *MemoryStore) Close() error {
	return nil
}
