// Package export publishes monthly financial rollups to an external sheet
// for long-term bookkeeping outside the app.
package export

import (
	"context"
	"time"

	"github.com/tmeta22/MetaHouse/internal/views"
)

// RollupWriter is the port for outbound rollup adapters.
type RollupWriter interface {
	// AppendMonthRollup appends one month's summary row and returns an
	// adapter-specific row reference.
	AppendMonthRollup(ctx context.Context, year int, month time.Month, r views.RollupSummary) (rowRef string, err error)
}
