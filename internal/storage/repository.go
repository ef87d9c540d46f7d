// Package storage is the external persistence collaborator: it mirrors the
// session ledger into SQLite so the store can be repopulated at session
// start. The in-memory store stays authoritative while a session runs.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"duitku/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadAll returns every persisted transaction, oldest insert first. Used to
// seed the in-memory store at session start.
func (r *SQLiteRepository) LoadAll(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, amount, category, date, description FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	slog.InfoContext(ctx, "Loaded transactions from SQLite", "count", len(txs))
	return txs, nil
}

// Get returns one persisted transaction by id.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, type, amount, category, date, description FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, &core.NotFoundError{ID: id}
	}
	if err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

// Insert persists a new transaction under the id the store assigned.
func (r *SQLiteRepository) Insert(ctx context.Context, tx core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, type, amount, category, date, description) VALUES (?, ?, ?, ?, ?, ?)`,
		tx.ID, string(tx.Type), tx.Amount.Rupiah, tx.Category, tx.Date.ISO(), tx.Description)
	if err != nil {
		return fmt.Errorf("insert transaction %d: %w", tx.ID, err)
	}
	return nil
}

// Update overwrites the mutable fields of a persisted transaction.
func (r *SQLiteRepository) Update(ctx context.Context, tx core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET amount = ?, category = ?, date = ?, description = ? WHERE id = ?`,
		tx.Amount.Rupiah, tx.Category, tx.Date.ISO(), tx.Description, tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", tx.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", tx.ID, err)
	}
	if affected == 0 {
		return &core.NotFoundError{ID: tx.ID}
	}
	return nil
}

// Delete removes a persisted transaction.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if affected == 0 {
		return &core.NotFoundError{ID: id}
	}
	return nil
}

// Clear removes every persisted transaction. All-or-nothing: a single
// statement, so there is no partial failure mode.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	slog.InfoContext(ctx, "Cleared all persisted transactions")
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx      core.Transaction
		typ     string
		amount  int64
		dateISO string
	)
	if err := row.Scan(&tx.ID, &typ, &amount, &tx.Category, &dateISO, &tx.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	date, err := core.ParseDate(dateISO)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("stored date for transaction %d: %w", tx.ID, err)
	}
	tx.Type = core.Type(typ)
	tx.Amount = core.Money{Rupiah: amount}
	tx.Date = date
	return tx, nil
}
