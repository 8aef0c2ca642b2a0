// Package memory implements an in-memory document store for the bulk sink.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/vshulcz/elasticreport/internal/domain"
	"github.com/vshulcz/elasticreport/internal/ports"
)

// Store keeps documents grouped by index.
type Store struct {
	docs map[string][]domain.StoredDocument
	mu   sync.RWMutex
}

var _ ports.DocumentStore = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{docs: make(map[string][]domain.StoredDocument)}
}

// Insert appends the batch. Documents are never merged or deduplicated.
func (s *Store) Insert(_ context.Context, docs []domain.StoredDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		d.Source = slices.Clone(d.Source)
		s.docs[d.Index] = append(s.docs[d.Index], d)
	}
	return nil
}

// Count returns the number of documents stored under index.
func (s *Store) Count(_ context.Context, index string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.docs[index])), nil
}

// Documents returns a copy of the documents stored under index in arrival order.
func (s *Store) Documents(index string) []domain.StoredDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.docs[index])
}

func (s *Store) Ping(context.Context) error { return nil }
