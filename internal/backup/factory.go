package backup

import (
	"context"
	"fmt"
	"log/slog"

	"duitku/internal/backup/file"
	"duitku/internal/backup/google"
	"duitku/internal/backup/memory"
)

// Ensure interface conformance
var (
	_ Exporter = (*google.Client)(nil)
	_ Exporter = (*file.Store)(nil)
	_ Exporter = (*memory.Store)(nil)
)

// Config holds configuration for exporter creation.
type Config struct {
	Kind Kind

	// File backup specific
	FilePath string
}

// New creates the exporter selected by config. The sheets exporter reads its
// credentials and spreadsheet ID from the environment.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (Exporter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Kind.IsValid() {
		return nil, fmt.Errorf("invalid backup kind: %s", cfg.Kind)
	}

	switch cfg.Kind {
	case SheetsKind:
		cli, err := google.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets exporter: %w", err)
		}
		logger.Info("Initialized Google Sheets backup exporter")
		return cli, nil
	case FileKind:
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("backup file path is required for file backups")
		}
		store := file.New(cfg.FilePath)
		logger.Info("Initialized file backup exporter", "path", cfg.FilePath)
		return store, nil
	case MemoryKind:
		logger.Info("Initialized in-memory backup exporter")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported backup kind: %s", cfg.Kind)
	}
}
