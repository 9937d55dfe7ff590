package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"photonic-sparam/internal/errors"
)

// FileStore persists one JSON file per run under a base directory
type FileStore struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStore creates a file store rooted at basePath
func NewFileStore(basePath string) (*FileStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, errors.Storage("failed to create storage directory", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// Save implements Store
func (s *FileStore) Save(ctx context.Context, run *StoredRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return errors.Storage("failed to marshal run", err)
	}

	if err := os.WriteFile(s.runPath(run.ID), data, 0644); err != nil {
		return errors.Storage("failed to write run", err)
	}
	return nil
}

// Get implements Store
func (s *FileStore) Get(ctx context.Context, id string) (*StoredRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.runPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("run", id)
		}
		return nil, errors.Storage("failed to read run", err)
	}

	var run StoredRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, errors.Storage("failed to unmarshal run", err)
	}
	return &run, nil
}

// List implements Store
func (s *FileStore) List(ctx context.Context, filter *ListFilter) ([]*StoredRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, errors.Storage("failed to read storage directory", err)
	}

	var runs []*StoredRun
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(s.basePath, entry.Name()))
		if err != nil {
			continue
		}

		var run StoredRun
		if err := json.Unmarshal(data, &run); err != nil {
			continue
		}

		if filter.matches(&run) {
			stored := run
			runs = append(runs, &stored)
		}
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
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.runPath(id)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound("run", id)
		}
		return errors.Storage("failed to stat run", err)
	}
	if err := os.Remove(path); err != nil {
		return errors.Storage("failed to delete run", err)
	}
	return nil
}

// Close implements Store
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) runPath(id string) string {
	return filepath.Join(s.basePath, id+".json")
}
