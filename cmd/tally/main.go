package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"tally/internal/config"
	"tally/internal/events"
	apphttp "tally/internal/http"
	"tally/internal/ledger"
	"tally/internal/ledger/memory"
	applog "tally/internal/log"
	"tally/internal/seed"
	"tally/internal/session"
	"tally/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Every session gets its own empty store; nothing outlives the process.
	var factory session.StoreFactory
	switch cfg.LedgerBackend {
	case "sqlite":
		factory = func() (ledger.Store, error) {
			return storage.NewEphemeralStore()
		}
	default:
		factory = func() (ledger.Store, error) {
			return memory.New(), nil
		}
	}
	logger.Info("Ledger backend selected", applog.FieldBackend, cfg.LedgerBackend)

	var publisher *events.Client
	if cfg.AMQPURL != "" {
		var err error
		publisher, err = events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Event publishing disabled", "error", err)
			publisher = nil
		} else {
			defer publisher.Close()
			logger.Info("Event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	sessions := session.NewManager(cfg.SessionTTL, factory)
	defer sessions.Stop()

	categories := seed.Categories(cfg.SeedDir)

	srv := apphttp.NewServer(":"+cfg.Port, sessions, publisher, cfg.ForecastWindow, cfg.DemoSeed, categories)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting tally server", "port", cfg.Port, applog.FieldBackend, cfg.LedgerBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
