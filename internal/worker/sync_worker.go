package worker

import (
	"context"
	"fmt"
	"log/slog"

	"duitku/internal/amqp"
	"duitku/internal/backup"
	"duitku/internal/core"
)

// TransactionSource is the slice of the storage layer the worker needs.
type TransactionSource interface {
	Get(ctx context.Context, id int64) (core.Transaction, error)
	LoadAll(ctx context.Context) ([]core.Transaction, error)
}

// SyncWorker mirrors database changes into the configured backup destination.
// It reacts to AMQP sync messages and periodically rewrites the whole backup
// as a catch-all for lost messages.
type SyncWorker struct {
	source   TransactionSource
	exporter backup.Exporter
}

func NewSyncWorker(source TransactionSource, exporter backup.Exporter) *SyncWorker {
	return &SyncWorker{
		source:   source,
		exporter: exporter,
	}
}

// HandleSyncMessage processes a single transaction sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"op", msg.Op)

	switch msg.Op {
	case amqp.OpDelete:
		if err := w.exporter.Remove(ctx, msg.ID); err != nil {
			return fmt.Errorf("remove transaction from backup: %w", err)
		}
		return nil
	case amqp.OpUpsert:
		tx, err := w.source.Get(ctx, msg.ID)
		if err != nil {
			// The transaction may have been deleted after the upsert message
			// was published. Drop the stale backup row instead of failing.
			if core.IsNotFound(err) {
				slog.WarnContext(ctx, "Transaction gone before sync, removing from backup", "id", msg.ID)
				return w.exporter.Remove(ctx, msg.ID)
			}
			return fmt.Errorf("get transaction from storage: %w", err)
		}
		if err := w.exporter.Upsert(ctx, tx); err != nil {
			return fmt.Errorf("export transaction to backup: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown sync operation: %q", msg.Op)
	}
}

// Resync rewrites the entire backup from the database. Run at startup and on
// an interval to recover from missed AMQP messages or worker downtime.
func (w *SyncWorker) Resync(ctx context.Context) error {
	txs, err := w.source.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("load transactions for resync: %w", err)
	}

	if err := w.exporter.Snapshot(ctx, txs); err != nil {
		return fmt.Errorf("write backup snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Backup resync completed", "count", len(txs))
	return nil
}
