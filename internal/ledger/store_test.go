package ledger

import (
	"testing"
	"time"

	"duitku/internal/core"
)

func sampleTx(typ core.Type, amount int64, category string, date core.Date, desc string) core.Transaction {
	return core.Transaction{
		Type:        typ,
		Amount:      core.Money{Rupiah: amount},
		Category:    category,
		Date:        date,
		Description: desc,
	}
}

func TestStoreAddAssignsFreshIDs(t *testing.T) {
	s := NewStore()
	a, err := s.Add(sampleTx(core.Income, 100000, "gaji", core.NewDate(2023, 10, 12), "first"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	b, err := s.Add(sampleTx(core.Expense, 200000, "makanan", core.NewDate(2023, 10, 11), "second"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("ids must be unique, both %d", a.ID)
	}
	if b.ID <= a.ID {
		t.Fatalf("ids must increase: %d then %d", a.ID, b.ID)
	}

	// Ids are not reused after delete.
	if err := s.Delete(b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	c, err := s.Add(sampleTx(core.Income, 50000, "bonus", core.NewDate(2023, 10, 10), "third"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if c.ID == b.ID {
		t.Fatalf("id %d was reused after delete", b.ID)
	}
}

func TestStoreAddRejectsMalformed(t *testing.T) {
	s := NewStore()
	_, err := s.Add(sampleTx(core.Income, -1, "gaji", core.NewDate(2023, 10, 12), ""))
	if !core.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("failed add must not mutate the store")
	}
}

func TestStoreUpdateMergesAndRevalidates(t *testing.T) {
	s := NewStore()
	orig, _ := s.Add(sampleTx(core.Expense, 600000, "belanja", core.NewDate(2023, 10, 7), "Transaction 6"))

	amount := core.Money{Rupiah: 750000}
	updated, err := s.Update(orig.ID, Patch{Amount: &amount})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != orig.ID || updated.Type != orig.Type {
		t.Errorf("update must preserve id and type: got id=%d type=%s", updated.ID, updated.Type)
	}
	if updated.Amount.Rupiah != 750000 {
		t.Errorf("amount = %d, want 750000", updated.Amount.Rupiah)
	}
	if updated.Category != "belanja" || updated.Description != "Transaction 6" {
		t.Errorf("unpatched fields changed: %+v", updated)
	}

	// Invalid merge result leaves the record unchanged.
	bad := "gaji" // income category on an expense
	if _, err := s.Update(orig.ID, Patch{Category: &bad}); !core.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	cur, _ := s.Get(orig.ID)
	if cur.Category != "belanja" {
		t.Errorf("failed update mutated the store: category = %q", cur.Category)
	}

	// Unknown id.
	if _, err := s.Update(999, Patch{Amount: &amount}); !core.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestStoreDeleteIsNotIdempotent(t *testing.T) {
	s := NewStore()
	tx, _ := s.Add(sampleTx(core.Income, 100000, "gaji", core.NewDate(2023, 10, 12), ""))

	if err := s.Delete(tx.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := s.Delete(tx.ID); !core.IsNotFound(err) {
		t.Fatalf("second delete must fail with NotFoundError, got %v", err)
	}
}

func TestStoreClearAndSnapshot(t *testing.T) {
	s := NewStore()
	s.Clear() // empty clear succeeds

	s.Add(sampleTx(core.Income, 100000, "gaji", core.NewDate(2023, 10, 12), ""))
	s.Add(sampleTx(core.Expense, 200000, "makanan", core.NewDate(2023, 10, 11), ""))

	snap := s.All()
	if len(snap) != 2 {
		t.Fatalf("snapshot len = %d, want 2", len(snap))
	}
	// Mutating the snapshot never affects the store.
	snap[0].Description = "mutated"
	got, err := s.Get(1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description == "mutated" {
		t.Fatalf("snapshot mutation leaked into the store")
	}

	s.Clear()
	if s.Len() != 0 {
		t.Fatalf("store not empty after clear")
	}

	// Ids continue past cleared records.
	tx, _ := s.Add(sampleTx(core.Income, 1, "gaji", core.NewDate(2023, 10, 1), ""))
	if tx.ID != 3 {
		t.Errorf("id after clear = %d, want 3", tx.ID)
	}
}

func TestStoreSeed(t *testing.T) {
	s := NewStore()
	s.Seed([]core.Transaction{
		{ID: 4, Type: core.Income, Amount: core.Money{Rupiah: 100}, Category: "gaji", Date: core.NewDate(2023, 9, 1)},
		{ID: 9, Type: core.Expense, Amount: core.Money{Rupiah: 200}, Category: "makanan", Date: core.NewDate(2023, 9, 2)},
	})
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
	tx, err := s.Add(sampleTx(core.Income, 300, "bonus", core.NewDate(2023, 9, 3), ""))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if tx.ID != 10 {
		t.Errorf("id after seed = %d, want 10", tx.ID)
	}
}

func TestConfirmations(t *testing.T) {
	c := NewConfirmations(time.Minute)

	token := c.Request(ActionDelete, 7)
	action, err := c.Take(token)
	if err != nil {
		t.Fatalf("take: %v", err)
	}
	if action.Kind != ActionDelete || action.ID != 7 {
		t.Errorf("action = %+v, want delete of 7", action)
	}

	// Single use.
	if _, err := c.Take(token); err != ErrUnknownConfirmation {
		t.Fatalf("second take: got %v, want ErrUnknownConfirmation", err)
	}

	// Unknown token.
	if _, err := c.Take("nope"); err != ErrUnknownConfirmation {
		t.Fatalf("unknown token: got %v, want ErrUnknownConfirmation", err)
	}
}

func TestConfirmationsExpiry(t *testing.T) {
	c := NewConfirmations(time.Minute)
	current := time.Date(2023, 10, 12, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	token := c.Request(ActionClear, 0)
	current = current.Add(2 * time.Minute)
	if _, err := c.Take(token); err != ErrUnknownConfirmation {
		t.Fatalf("expired token: got %v, want ErrUnknownConfirmation", err)
	}

	token = c.Request(ActionClear, 0)
	current = current.Add(5 * time.Minute)
	c.Prune()
	c.mu.Lock()
	remaining := len(c.pending)
	c.mu.Unlock()
	if remaining != 0 {
		t.Errorf("prune left %d pending tokens", remaining)
	}
	_ = token
}
