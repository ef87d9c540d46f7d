package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"duitku/internal/core"
)

// Store keeps a backup of all transactions in a single JSON file. The file
// holds a plain array of records so it can be re-imported directly.
type Store struct {
	mu   sync.Mutex
	path string
}

type record struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Amount      int64  `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backup file location.
func (s *Store) Path() string {
	return s.path
}

// Upsert replaces or adds the record for the transaction and rewrites the file.
func (s *Store) Upsert(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	replaced := false
	for i, r := range records {
		if r.ID == tx.ID {
			records[i] = toRecord(tx)
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, toRecord(tx))
	}

	return s.write(records)
}

// Remove drops the record for the given ID. Missing IDs are not an error.
func (s *Store) Remove(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	return s.write(kept)
}

// Snapshot rewrites the backup from the given transactions.
func (s *Store) Snapshot(_ context.Context, txs []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]record, 0, len(txs))
	for _, tx := range txs {
		records = append(records, toRecord(tx))
	}
	return s.write(records)
}

func (s *Store) load() ([]record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup file: %w", err)
	}
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse backup file: %w", err)
	}
	return records, nil
}

// write persists the records sorted by ID, via a temp file and rename so a
// crash mid-write never leaves a truncated backup.
func (s *Store) write(records []record) error {
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal backup: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".backup-*.json")
	if err != nil {
		return fmt.Errorf("create temp backup file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close backup file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace backup file: %w", err)
	}
	return nil
}

func toRecord(tx core.Transaction) record {
	return record{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Amount:      tx.Amount.Rupiah,
		Category:    tx.Category,
		Date:        tx.Date.ISO(),
		Description: tx.Description,
	}
}
