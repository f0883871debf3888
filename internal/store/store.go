// Package store keeps the most recent audit result per project.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/dshills/seoaudit/internal/audit"
)

// ErrNotFound is returned when no audit has been stored for a project.
var ErrNotFound = errors.New("audit not found")

// Store persists the latest audit result for each project.
type Store interface {
	// Save replaces the latest result for r.ProjectID.
	Save(ctx context.Context, r *audit.Result) error

	// Latest returns the most recent result for projectID or ErrNotFound.
	Latest(ctx context.Context, projectID string) (*audit.Result, error)

	Close() error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]audit.Result
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{results: make(map[string]audit.Result)}
}

func (s *MemoryStore) Save(_ context.Context, r *audit.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[r.ProjectID] = *r
	return nil
}

func (s *MemoryStore) Latest(_ context.Context, projectID string) (*audit.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[projectID]
	if !ok {
		return nil, ErrNotFound
	}
	return &r, nil
}

func (s *MemoryStore) Close() error { return nil }
