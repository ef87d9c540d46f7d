package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"duitku/internal/amqp"
	"duitku/internal/core"
	"duitku/internal/ledger"
	"duitku/internal/report"
)

const confirmationTTL = 5 * time.Minute

// Repository is the slice of the storage layer the service mirrors into.
type Repository interface {
	LoadAll(ctx context.Context) ([]core.Transaction, error)
	Insert(ctx context.Context, tx core.Transaction) error
	Update(ctx context.Context, tx core.Transaction) error
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
	Close() error
}

// Publisher notifies the sync worker about changed transactions.
type Publisher interface {
	PublishTransactionSync(ctx context.Context, id int64, op string) error
	Close() error
}

// Result is returned by every mutating and querying operation so the caller
// never needs a second round trip: the affected transaction (when there is
// one) plus freshly computed dashboard and history projections.
type Result struct {
	Transaction *core.Transaction
	Dashboard   report.Dashboard
	History     report.Page
}

// LedgerService is the single entry point for the UI layer. It owns the
// in-memory store, keeps the history filter state, and mirrors every
// mutation into SQLite and onto the sync queue. The store stays
// authoritative: mirror failures are logged, never surfaced.
type LedgerService struct {
	mu            sync.Mutex
	store         *ledger.Store
	confirmations *ledger.Confirmations
	repo          Repository
	publisher     Publisher
	filter        report.Filter

	now func() time.Time
}

// NewLedgerService creates a service with an empty store. Both repo and
// publisher may be nil, for tests and for running without persistence.
func NewLedgerService(repo Repository, publisher Publisher) *LedgerService {
	return &LedgerService{
		store:         ledger.NewStore(),
		confirmations: ledger.NewConfirmations(confirmationTTL),
		repo:          repo,
		publisher:     publisher,
		filter:        report.Filter{Type: report.FilterAll, Page: 1},
		now:           time.Now,
	}
}

// Load seeds the store from the repository. Call once at session start.
func (s *LedgerService) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	txs, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Seed(txs)

	slog.InfoContext(ctx, "Seeded ledger from storage", "count", len(txs))
	return nil
}

// AddTransaction validates and stores a new transaction, then mirrors it.
func (s *LedgerService) AddTransaction(ctx context.Context, tx core.Transaction) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.store.Add(tx)
	if err != nil {
		return Result{}, err
	}

	s.mirrorUpsert(ctx, stored, true)
	return s.result(&stored), nil
}

// UpdateTransaction merges the patch into an existing transaction. The type
// is immutable; Patch has no field for it.
func (s *LedgerService) UpdateTransaction(ctx context.Context, id int64, patch ledger.Patch) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := s.store.Update(id, patch)
	if err != nil {
		return Result{}, err
	}

	s.mirrorUpsert(ctx, updated, false)
	return s.result(&updated), nil
}

// RequestDelete starts the two-step delete protocol and returns the
// confirmation token. The transaction must exist.
func (s *LedgerService) RequestDelete(id int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.store.Get(id); err != nil {
		return "", err
	}
	s.confirmations.Prune()
	return s.confirmations.Request(ledger.ActionDelete, id), nil
}

// ConfirmDelete consumes a token from RequestDelete and performs the delete.
func (s *LedgerService) ConfirmDelete(ctx context.Context, token string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.confirmations.Take(token)
	if err != nil {
		return Result{}, err
	}
	if pending.Kind != ledger.ActionDelete {
		return Result{}, ledger.ErrUnknownConfirmation
	}

	if err := s.store.Delete(pending.ID); err != nil {
		return Result{}, err
	}

	if s.repo != nil {
		if repoErr := s.repo.Delete(ctx, pending.ID); repoErr != nil {
			slog.ErrorContext(ctx, "Failed to mirror delete", "id", pending.ID, "error", repoErr)
		}
	}
	s.publish(ctx, pending.ID, amqp.OpDelete)

	return s.result(nil), nil
}

// RequestClear starts the two-step reset protocol for wiping all data.
func (s *LedgerService) RequestClear() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmations.Prune()
	return s.confirmations.Request(ledger.ActionClear, 0)
}

// ConfirmClear consumes a token from RequestClear and wipes the ledger.
// Clearing cannot fail once confirmed; mirror errors are logged only.
func (s *LedgerService) ConfirmClear(ctx context.Context, token string) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.confirmations.Take(token)
	if err != nil {
		return Result{}, err
	}
	if pending.Kind != ledger.ActionClear {
		return Result{}, ledger.ErrUnknownConfirmation
	}

	s.store.Clear()
	s.filter = report.Filter{Type: report.FilterAll, Page: 1}

	if s.repo != nil {
		if repoErr := s.repo.Clear(ctx); repoErr != nil {
			slog.ErrorContext(ctx, "Failed to mirror clear", "error", repoErr)
		}
	}
	// No per-id messages for a wipe; the worker's periodic resync rewrites
	// the backup from the now-empty database.

	return s.result(nil), nil
}

// SetFilter changes the history type filter and search text. Any change
// resets the page to 1.
func (s *LedgerService) SetFilter(typeFilter, search string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filter.Type != typeFilter || s.filter.Search != search {
		s.filter.Page = 1
	}
	s.filter.Type = typeFilter
	s.filter.Search = search
	return s.result(nil)
}

// SetPage moves the history view to the requested page. Out-of-range pages
// clamp inside the history builder.
func (s *LedgerService) SetPage(page int) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter.Page = page
	return s.result(nil)
}

// View recomputes both projections for the current filter state.
func (s *LedgerService) View() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result(nil)
}

// Report computes range totals and the chart series for the current
// snapshot. It does not touch the session's history filter state.
func (s *LedgerService) Report(period report.Period, custom report.Range) (report.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return report.BuildReport(s.store.All(), period, custom, s.now())
}

// ExportAll returns a snapshot of every transaction, ordered by ID.
func (s *LedgerService) ExportAll() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.All()
}

// Import replaces the whole ledger with the given transactions, keeping
// their IDs. All records are validated before anything is touched, so a bad
// file never leaves a half-imported ledger.
func (s *LedgerService) Import(ctx context.Context, txs []core.Transaction) (Result, error) {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return Result{}, fmt.Errorf("transaction %d: %w", tx.ID, err)
		}
	}

	// Keep incoming ids when they can serve as-is so an exported file
	// re-imports identically; renumber wholesale when they cannot.
	seen := make(map[int64]bool, len(txs))
	usable := true
	for _, tx := range txs {
		if tx.ID < 1 || seen[tx.ID] {
			usable = false
			break
		}
		seen[tx.ID] = true
	}
	if !usable {
		txs = append([]core.Transaction(nil), txs...)
		for i := range txs {
			txs[i].ID = int64(i + 1)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.store.Seed(txs)
	s.filter = report.Filter{Type: report.FilterAll, Page: 1}

	if s.repo != nil {
		if err := s.repo.Clear(ctx); err != nil {
			slog.ErrorContext(ctx, "Failed to clear storage before import", "error", err)
		}
		for _, tx := range txs {
			if err := s.repo.Insert(ctx, tx); err != nil {
				slog.ErrorContext(ctx, "Failed to mirror imported transaction", "id", tx.ID, "error", err)
			}
		}
	}
	for _, tx := range txs {
		s.publish(ctx, tx.ID, amqp.OpUpsert)
	}

	slog.InfoContext(ctx, "Imported transactions", "count", len(txs))
	return s.result(nil), nil
}

// Close closes the repository and the AMQP connection.
func (s *LedgerService) Close() error {
	var errs []error

	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}

// result builds the combined projections. Callers hold s.mu.
func (s *LedgerService) result(tx *core.Transaction) Result {
	snapshot := s.store.All()
	return Result{
		Transaction: tx,
		Dashboard:   report.BuildDashboard(snapshot, s.now()),
		History:     report.BuildHistory(snapshot, s.filter),
	}
}

// mirrorUpsert persists a stored transaction and queues it for backup.
// Callers hold s.mu.
func (s *LedgerService) mirrorUpsert(ctx context.Context, tx core.Transaction, isNew bool) {
	if s.repo != nil {
		var err error
		if isNew {
			err = s.repo.Insert(ctx, tx)
		} else {
			err = s.repo.Update(ctx, tx)
		}
		if err != nil {
			slog.ErrorContext(ctx, "Failed to mirror transaction", "id", tx.ID, "error", err)
		}
	}
	s.publish(ctx, tx.ID, amqp.OpUpsert)
}

func (s *LedgerService) publish(ctx context.Context, id int64, op string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, id, op); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "op", op, "error", err)
	}
}
