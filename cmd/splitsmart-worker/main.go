package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"splitsmart/internal/amqp"
	"splitsmart/internal/assist"
	"splitsmart/internal/assist/gemini"
	"splitsmart/internal/assist/stub"
	"splitsmart/internal/backend"
	"splitsmart/internal/config"
	"splitsmart/internal/log"
	"splitsmart/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the insights worker")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := backend.New(cfg.BackendConfig(), log.WithComponent(logger, "backend"))
	if err != nil {
		logger.Error("Failed to initialize snapshot store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var insighter assist.Insighter
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		insighter = client
		logger.Info("Gemini assist enabled", "model", cfg.GeminiModel)
	} else {
		insighter = stub.New()
		logger.Info("Gemini disabled - using offline assist stub")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	w := worker.NewInsightsWorker(store, insighter)

	// Refresh once on startup so a fresh deployment has insights before the
	// first expense arrives.
	if err := w.Refresh(ctx); err != nil {
		logger.Warn("Initial insights refresh failed", "error", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumeExpenseAdded(gctx, func(msg *amqp.ExpenseAddedMessage) error {
			return w.HandleExpenseAdded(gctx, msg)
		})
	})

	// Periodic refresh as a backup for missed messages.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.InsightRefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-ticker.C:
				if err := w.Refresh(gctx); err != nil {
					logger.Error("Periodic insights refresh failed", "error", err)
				}
			}
		}
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	logger.Info("Insights worker started",
		"queue", cfg.AMQPQueue,
		"refresh_interval", cfg.InsightRefreshInterval)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
