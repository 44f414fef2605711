package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tmeta22/MetaHouse/internal/bridge"
	"github.com/tmeta22/MetaHouse/internal/config"
	"github.com/tmeta22/MetaHouse/internal/export"
	gsheet "github.com/tmeta22/MetaHouse/internal/export/google"
	"github.com/tmeta22/MetaHouse/internal/gateway"
	apphttp "github.com/tmeta22/MetaHouse/internal/http"
	"github.com/tmeta22/MetaHouse/internal/log"
	"github.com/tmeta22/MetaHouse/internal/notify"
	"github.com/tmeta22/MetaHouse/internal/platform"
	"github.com/tmeta22/MetaHouse/internal/platform/amqppush"
	pushmem "github.com/tmeta22/MetaHouse/internal/platform/memory"
	"github.com/tmeta22/MetaHouse/internal/remote"
	"github.com/tmeta22/MetaHouse/internal/storage"
	"github.com/tmeta22/MetaHouse/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting metahouse")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	// Local durable storage: settings, notification log, bootstrap flag.
	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize local storage", log.FieldError, err, log.FieldPath, cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Push platform: AMQP broker when configured, in-process otherwise.
	var pusher platform.Pusher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqppush.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP push client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		pusher = amqpClient
		logger.Info("AMQP push platform initialized",
			log.FieldExchange, cfg.AMQPExchange,
			log.FieldQueue, cfg.AMQPQueue)
	} else {
		pusher = pushmem.New()
		logger.Info("No AMQP URL configured, push notifications stay in-process")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifier := notify.NewEngine(ctx, repo, pusher, logger)
	notifier.StartSweep(cfg.SweepInterval)
	defer notifier.StopSweep()

	client := remote.New(cfg.RemoteBaseURL, &http.Client{Timeout: cfg.RemoteTimeout})
	st := store.New(client, logger)
	gw := gateway.New(client, st, repo, notifier, logger)

	initCtx, initCancel := context.WithTimeout(ctx, 60*time.Second)
	if err := gw.Init(initCtx); err != nil {
		logger.Error("Initial load failed", log.FieldError, err)
	}
	initCancel()

	br := bridge.New(gw, logger)

	// Rollup export target (optional).
	var exporter *export.Service
	if cfg.GoogleSpreadsheetID != "" {
		sheets, err := gsheet.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		exporter = export.NewService(st, sheets, logger)
		logger.Info("Google Sheets export initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	srv := apphttp.NewServer(":"+cfg.Port, st, gw, notifier, br, exporter, logger)

	// Graceful shutdown handling
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting metahouse server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
