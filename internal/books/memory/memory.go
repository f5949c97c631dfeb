package memory

import (
	"context"
	"sync"

	"booklog/internal/books"
	"booklog/internal/core"
)

// Store is an in-memory Source and Writer.
type Store struct {
	mu    sync.Mutex
	items []core.RawBook
	err   error
}

var (
	_ books.Source = (*Store)(nil)
	_ books.Writer = (*Store)(nil)
)

func New(records ...core.RawBook) *Store {
	return &Store{items: append([]core.RawBook(nil), records...)}
}

func (s *Store) Name() string { return "memory" }

// LoadBooks returns a copy of the stored records.
func (s *Store) LoadBooks(_ context.Context) ([]core.RawBook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]core.RawBook(nil), s.items...), nil
}

// UpsertBooks replaces the stored records.
func (s *Store) UpsertBooks(_ context.Context, records []core.RawBook) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.RawBook(nil), records...)
	return len(records), nil
}

// Fail makes subsequent loads return err. A nil err clears it.
func (s *Store) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}
