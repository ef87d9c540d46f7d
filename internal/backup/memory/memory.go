package memory

import (
	"context"
	"sync"

	"duitku/internal/core"
)

// Store is an in-memory exporter used in tests and when no real backup
// destination is configured.
type Store struct {
	mu    sync.Mutex
	items map[int64]core.Transaction
}

func New() *Store {
	return &Store{items: make(map[int64]core.Transaction)}
}

func (s *Store) Upsert(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[tx.ID] = tx
	return nil
}

func (s *Store) Remove(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
	return nil
}

func (s *Store) Snapshot(_ context.Context, txs []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[int64]core.Transaction, len(txs))
	for _, tx := range txs {
		s.items[tx.ID] = tx
	}
	return nil
}

// Get returns the stored transaction for an ID, if present.
func (s *Store) Get(id int64) (core.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.items[id]
	return tx, ok
}

// Len returns the number of stored transactions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
