package main

import (
	"context"
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
	apphttp "splitsmart/internal/http"
	"splitsmart/internal/log"
	"splitsmart/internal/service"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := backend.New(cfg.BackendConfig(), log.WithComponent(logger, "backend"))
	if err != nil {
		logger.Error("Failed to initialize snapshot store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	l, err := service.Bootstrap(ctx, store, logger)
	if err != nil {
		logger.Error("Failed to bootstrap ledger", "error", err)
		os.Exit(1)
	}

	// AI assist: Gemini when a key is configured, offline stub otherwise.
	var (
		parser    assist.Parser
		insighter assist.Insighter
	)
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to initialize Gemini client", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		parser, insighter = client, client
		logger.Info("Gemini assist enabled", "model", cfg.GeminiModel)
	} else {
		offline := stub.New()
		parser, insighter = offline, offline
		logger.Info("Gemini disabled - using offline assist stub")
	}

	// Event publishing is optional; without a broker mutations still work.
	var events service.Publisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		events = amqpClient
		logger.Info("AMQP publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	svc := service.NewLedgerService(l, store, events, log.WithComponent(logger, "service"))
	srv := apphttp.NewServer(cfg.Port, svc, store, parser, insighter, log.WithComponent(logger, "http"))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.ListenAndServe()
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
		case <-gctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
