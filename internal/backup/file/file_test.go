package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"duitku/internal/core"
)

func sampleTx(id int64, amount int64) core.Transaction {
	d, _ := core.ParseDate("2023-10-12")
	return core.Transaction{
		ID:          id,
		Type:        core.Expense,
		Amount:      core.Money{Rupiah: amount},
		Category:    "makanan",
		Date:        d,
		Description: "Makan siang",
	}
}

func readRecords(t *testing.T, path string) []record {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		t.Fatalf("parse backup: %v", err)
	}
	return records
}

func TestFileUpsertCreatesAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup", "money_tracker_backup.json")
	store := New(path)
	ctx := context.Background()

	if err := store.Upsert(ctx, sampleTx(1, 50000)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := store.Upsert(ctx, sampleTx(2, 75000)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	records := readRecords(t, path)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	// Replacing an existing ID must not grow the file.
	if err := store.Upsert(ctx, sampleTx(1, 99000)); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	records = readRecords(t, path)
	if len(records) != 2 {
		t.Fatalf("got %d records after replace, want 2", len(records))
	}
	if records[0].ID != 1 || records[0].Amount != 99000 {
		t.Errorf("record 0 = %+v, want ID 1 with amount 99000", records[0])
	}
	if records[0].Date != "2023-10-12" {
		t.Errorf("record date = %q, want 2023-10-12", records[0].Date)
	}
}

func TestFileUpsertRejectsInvalid(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "backup.json"))

	bad := sampleTx(1, 50000)
	bad.Category = "gaji" // income category on an expense

	if err := store.Upsert(context.Background(), bad); err == nil {
		t.Fatal("Upsert() should reject an invalid transaction")
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Error("backup file should not exist after a rejected upsert")
	}
}

func TestFileRemove(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "backup.json"))
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		if err := store.Upsert(ctx, sampleTx(i, i*10000)); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	if err := store.Remove(ctx, 2); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	records := readRecords(t, store.Path())
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	for _, r := range records {
		if r.ID == 2 {
			t.Error("removed ID 2 still present")
		}
	}

	// Removing an unknown ID is not an error.
	if err := store.Remove(ctx, 99); err != nil {
		t.Errorf("Remove(99) error = %v, want nil", err)
	}
}

func TestFileSnapshotSortsByID(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "backup.json"))
	ctx := context.Background()

	txs := []core.Transaction{sampleTx(3, 30000), sampleTx(1, 10000), sampleTx(2, 20000)}
	if err := store.Snapshot(ctx, txs); err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	records := readRecords(t, store.Path())
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	for i, want := range []int64{1, 2, 3} {
		if records[i].ID != want {
			t.Errorf("records[%d].ID = %d, want %d", i, records[i].ID, want)
		}
	}

	// An empty snapshot leaves an empty array, not a missing file.
	if err := store.Snapshot(ctx, nil); err != nil {
		t.Fatalf("Snapshot(nil) error = %v", err)
	}
	if got := readRecords(t, store.Path()); len(got) != 0 {
		t.Errorf("got %d records after empty snapshot, want 0", len(got))
	}
}
