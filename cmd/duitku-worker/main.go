package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"duitku/internal/amqp"
	"duitku/internal/backup"
	"duitku/internal/cli"
	"duitku/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting duitku-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	exporter, err := backup.New(context.Background(), backup.Config{
		Kind:     backup.Kind(cfg.BackupBackend),
		FilePath: cfg.BackupFilePath,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize backup exporter", "error", err, "backend", cfg.BackupBackend)
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	syncWorker := worker.NewSyncWorker(repo, exporter)

	// Rebuild the backup from SQLite on startup so messages lost while the
	// worker was down are reconciled before consuming new ones.
	logger.Info("Performing startup resync")
	if err := syncWorker.Resync(ctx); err != nil {
		logger.Error("Startup resync failed", "error", err)
	}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		err := amqpClient.ConsumeTransactionSync(groupCtx, func(msg *amqp.TransactionSyncMessage) error {
			return syncWorker.HandleSyncMessage(groupCtx, msg)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", "error", err)
			return err
		}
		return nil
	})

	group.Go(func() error {
		ticker := time.NewTicker(cfg.SyncInterval)
		defer ticker.Stop()
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case <-ticker.C:
				if err := syncWorker.Resync(groupCtx); err != nil {
					logger.Error("Periodic resync failed", "error", err)
				}
			}
		}
	})

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, cancel)

	if err := group.Wait(); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Worker stopped gracefully")
}
