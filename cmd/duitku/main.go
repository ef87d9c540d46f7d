package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"duitku/internal/amqp"
	"duitku/internal/cli"
	apphttp "duitku/internal/http"
	"duitku/internal/log"
	"duitku/internal/services"
)

func main() {
	cli.LoadEnvFile()
	slogger := cli.SetupLogger()
	logger := log.New(log.DefaultConfig())

	logger.Info("Starting duitku server")

	cfg := cli.LoadAndValidateConfig(slogger)

	repo := cli.InitSQLite(slogger, cfg.SQLiteDBPath)
	defer repo.Close()

	// The sync queue is optional: without it mutations still hit SQLite,
	// only the backup mirror lags until the worker's next full resync.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without sync publishing", "error", err)
		} else {
			publisher = amqpClient
			logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	service := services.NewLedgerService(repo, publisher)
	if err := service.Load(context.Background()); err != nil {
		logger.Error("Failed to load transactions", "error", err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(cfg.Port, service, logger)

	shutdownCtx, done := cli.GracefulShutdown(slogger, 30*time.Second, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			slogger.Error("Server shutdown error", "error", err)
		}
		if err := service.Close(); err != nil {
			slogger.Error("Service close error", "error", err)
		}
	})

	logger.Info("Listening", "port", cfg.Port, slog.String("db", cfg.SQLiteDBPath))
	if err := srv.Start(); err != nil {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}
