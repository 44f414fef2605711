package export

import (
	"context"
	"fmt"
	"time"

	"github.com/tmeta22/MetaHouse/internal/log"
	"github.com/tmeta22/MetaHouse/internal/store"
	"github.com/tmeta22/MetaHouse/internal/views"
)

type Service struct {
	store  *store.Store
	writer RollupWriter
	logger *log.Logger
}

func NewService(st *store.Store, writer RollupWriter, logger *log.Logger) *Service {
	return &Service{
		store:  st,
		writer: writer,
		logger: logger.WithComponent(log.ComponentExport),
	}
}

// ExportMonth computes the month's rollup from the current store snapshot
// and appends it through the configured writer.
func (s *Service) ExportMonth(ctx context.Context, year int, month time.Month) (string, error) {
	rollup := views.MonthRollup(s.store.Transactions(), year, month)

	ref, err := s.writer.AppendMonthRollup(ctx, year, month, rollup)
	if err != nil {
		return "", fmt.Errorf("append month rollup: %w", err)
	}

	s.logger.InfoContext(ctx, "Month rollup exported",
		log.FieldYear, year,
		log.FieldMonth, int(month),
		log.FieldSheetsRef, ref,
		"income_cents", rollup.Income.Cents,
		"expense_cents", rollup.Expense.Cents,
		"net_cents", rollup.Net.Cents)
	return ref, nil
}
