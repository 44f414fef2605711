// Command metahouse-export fetches the current transactions from the remote
// datastore and appends one month's rollup to the configured Google Sheet.
// Intended for cron or one-off use.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/tmeta22/MetaHouse/internal/config"
	"github.com/tmeta22/MetaHouse/internal/export"
	gsheet "github.com/tmeta22/MetaHouse/internal/export/google"
	"github.com/tmeta22/MetaHouse/internal/log"
	"github.com/tmeta22/MetaHouse/internal/remote"
	"github.com/tmeta22/MetaHouse/internal/store"
)

func main() {
	_ = godotenv.Load()

	now := time.Now()
	year := flag.Int("year", now.Year(), "year to export")
	month := flag.Int("month", int(now.Month()), "month to export (1-12)")
	flag.Parse()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	if *month < 1 || *month > 12 {
		logger.Error("Invalid month", log.FieldMonth, *month)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	sheets, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}

	client := remote.New(cfg.RemoteBaseURL, &http.Client{Timeout: cfg.RemoteTimeout})
	st := store.New(client, logger)
	st.Load(ctx)

	svc := export.NewService(st, sheets, logger)
	ref, err := svc.ExportMonth(ctx, *year, time.Month(*month))
	if err != nil {
		logger.Error("Export failed", log.FieldError, err,
			log.FieldYear, *year, log.FieldMonth, *month)
		os.Exit(1)
	}

	logger.Info("Export complete", log.FieldSheetsRef, ref)
}
