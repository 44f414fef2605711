// Package memory is an in-process RollupWriter used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tmeta22/MetaHouse/internal/export"
	"github.com/tmeta22/MetaHouse/internal/views"
)

type Row struct {
	Year   int
	Month  time.Month
	Rollup views.RollupSummary
}

type Writer struct {
	mu   sync.Mutex
	rows []Row
}

var _ export.RollupWriter = (*Writer)(nil)

func New() *Writer {
	return &Writer{}
}

func (w *Writer) AppendMonthRollup(_ context.Context, year int, month time.Month, r views.RollupSummary) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.rows = append(w.rows, Row{Year: year, Month: month, Rollup: r})
	return fmt.Sprintf("mem:%d", len(w.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (w *Writer) Rows() []Row {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Row(nil), w.rows...)
}
