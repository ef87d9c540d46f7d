// Package ledger holds a session's transactions in memory.
//
// The store is authoritative for the lifetime of one interactive session: it
// is seeded from the persistence collaborator at session start and mutated
// through the facade. Every failed operation leaves the store untouched.
package ledger

import (
	"sync"

	"duitku/internal/core"
)

// Store is the in-memory transaction collection. All methods are safe for
// concurrent use; mutations are serialized by a single lock.
type Store struct {
	mu     sync.Mutex
	items  []core.Transaction
	nextID int64
}

// Patch carries the fields an update may replace. Nil fields keep their
// current value. Type is intentionally absent: it is immutable after
// creation.
type Patch struct {
	Amount      *core.Money
	Category    *string
	Date        *core.Date
	Description *string
}

func NewStore() *Store {
	return &Store{nextID: 1}
}

// Seed replaces the store contents with records loaded from persistence.
// Existing ids are kept; the next fresh id continues past the largest seen.
func (s *Store) Seed(txs []core.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Transaction(nil), txs...)
	s.nextID = 1
	for _, tx := range s.items {
		if tx.ID >= s.nextID {
			s.nextID = tx.ID + 1
		}
	}
}

// Add validates the record, assigns a fresh id, and inserts it. The stored
// record is returned. Ids are never reused within a session, including after
// deletes.
func (s *Store) Add(tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = s.nextID
	s.nextID++
	s.items = append(s.items, tx)
	return tx, nil
}

// Update merges the patch into the identified record, re-validates the
// merged result with the same rules as Add, and commits only on success.
func (s *Store) Update(id int64, patch Patch) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return core.Transaction{}, &core.NotFoundError{ID: id}
	}

	merged := s.items[idx]
	if patch.Amount != nil {
		merged.Amount = *patch.Amount
	}
	if patch.Category != nil {
		merged.Category = *patch.Category
	}
	if patch.Date != nil {
		merged.Date = *patch.Date
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if err := merged.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.items[idx] = merged
	return merged, nil
}

// Delete removes the identified record. A second delete of the same id
// fails with NotFoundError rather than being silently ignored.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return &core.NotFoundError{ID: id}
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return nil
}

// Clear removes all records. It always succeeds, even on an empty store,
// and does not reset id assignment.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Get returns the identified record.
func (s *Store) Get(id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return core.Transaction{}, &core.NotFoundError{ID: id}
	}
	return s.items[idx], nil
}

// All returns a snapshot of all live records in insertion order. The caller
// may mutate the returned slice freely; the store is unaffected.
func (s *Store) All() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.items...)
}

// Len returns the number of live records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id int64) int {
	for i, tx := range s.items {
		if tx.ID == id {
			return i
		}
	}
	return -1
}
