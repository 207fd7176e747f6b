package main

import (
	"context"
	"time"

	"golang.org/x/text/language"

	"rentalflow/internal/amqp"
	"rentalflow/internal/cli"
	"rentalflow/internal/core"
	apphttp "rentalflow/internal/http"
	applog "rentalflow/internal/log"
	"rentalflow/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()
	result := cli.InitBackend(ctx, logger, cfg)

	// The ledger mirror is optional: without an AMQP broker the service
	// runs local-only and payment events are simply not published.
	var publisher services.EventPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker", "error", err)
		} else {
			logger.Info("Connected to AMQP broker", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
			amqpClient = client
			publisher = client
		}
	} else {
		logger.Info("Ledger sync disabled - no AMQP_URL provided")
	}

	service := services.NewRentalService(result.Repository, publisher)

	locale := language.English
	if cfg.DefaultLocale == "fr" {
		locale = language.French
	}

	srv, err := apphttp.NewServer(apphttp.Config{
		Port:            cfg.Port,
		DefaultCurrency: core.Currency(cfg.DefaultCurrency),
		DefaultLocale:   locale,
	}, service, applog.New(applog.Config{Component: "http"}))
	if err != nil {
		logger.Error("Failed to build HTTP server", "error", err)
		return
	}

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("HTTP server shutdown failed", "error", err)
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Error("AMQP client close failed", "error", err)
			}
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup failed", "error", err)
			}
		}
	})

	logger.Info("Starting rentalflow server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.Start(); err != nil {
		logger.Error("HTTP server failed", "error", err)
		return
	}

	cli.WaitForShutdown(shutdownCtx, done)
}
