package backup

import (
	"context"

	"duitku/internal/core"
)

// Exporter is the outbound port for backup destinations. The sync worker
// pushes individual changes as they arrive and periodically rewrites the
// whole backup from the database.
type Exporter interface {
	// Upsert writes or replaces the backup row for a transaction.
	Upsert(ctx context.Context, tx core.Transaction) error

	// Remove deletes the backup row for a transaction. Removing an ID that
	// was never backed up is not an error.
	Remove(ctx context.Context, id int64) error

	// Snapshot replaces the entire backup with the given transactions.
	Snapshot(ctx context.Context, txs []core.Transaction) error
}
