package main

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"rentalflow/internal/amqp"
	"rentalflow/internal/backend"
	"rentalflow/internal/backup"
	"rentalflow/internal/cli"
	"rentalflow/internal/ledger"
	ledgergoogle "rentalflow/internal/ledger/google"
	ledgermem "rentalflow/internal/ledger/memory"
	"rentalflow/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the ledger worker")
		return
	}

	ctx := context.Background()
	result := cli.InitBackend(ctx, logger, cfg)

	var writer ledger.Writer
	if cfg.GoogleSpreadsheetID != "" {
		client, err := ledgergoogle.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, cfg.GoogleServiceAccountKey)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets ledger", "error", err)
			return
		}
		logger.Info("Mirroring payments to Google Sheets", "spreadsheet_id", cfg.GoogleSpreadsheetID)
		writer = client
	} else {
		logger.Info("Google Sheets disabled - no GOOGLE_SPREADSHEET_ID provided, mirroring in memory")
		writer = ledgermem.New()
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker", "error", err)
		return
	}

	ledgerWorker := worker.NewLedgerWorker(result.Repository, writer)
	reminder := backup.NewReminder("rentalflow", backend.BackendType(cfg.DataBackend), cfg.SQLiteDBPath, cfg.MongoDatabase)

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if err := amqpClient.Close(); err != nil {
			logger.Error("AMQP client close failed", "error", err)
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}
	})

	g, gctx := errgroup.WithContext(shutdownCtx)

	g.Go(func() error {
		logger.Info("Consuming payment events", "queue", cfg.AMQPQueue)
		return amqpClient.ConsumePaymentEvents(gctx, func(msg *amqp.PaymentEventMessage) error {
			return ledgerWorker.HandleEvent(gctx, msg)
		})
	})

	g.Go(func() error {
		ticker := time.NewTicker(cfg.BackupReminderInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case now := <-ticker.C:
				text, err := reminder.Render(now)
				if err != nil {
					logger.Error("Failed to render backup reminder", "error", err)
					continue
				}
				logger.Info("Backup reminder", "instructions", text)
			}
		}
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) && shutdownCtx.Err() == nil {
		logger.Error("Worker stopped with error", "error", err)
		return
	}

	cli.WaitForShutdown(shutdownCtx, done)
}
