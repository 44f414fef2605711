package views

import (
	"time"

	"github.com/tmeta22/MetaHouse/internal/core"
)

// RollupSummary aggregates transactions into income, expense and net balance.
type RollupSummary struct {
	Income  core.Money `json:"income"`
	Expense core.Money `json:"expense"`
	Net     core.Money `json:"net"`
}

// Rollup partitions transactions by type and sums each side. Empty input
// yields a zero-valued summary.
func Rollup(txs []core.Transaction) RollupSummary {
	var income, expense int64
	for _, tx := range txs {
		switch tx.Type {
		case core.TypeIncome:
			income += tx.Amount.Cents
		case core.TypeExpense:
			expense += tx.Amount.Cents
		}
	}
	return RollupSummary{
		Income:  core.Money{Cents: income},
		Expense: core.Money{Cents: expense},
		Net:     core.Money{Cents: income - expense},
	}
}

// MonthRollup aggregates only the transactions dated in the given calendar
// month and year.
func MonthRollup(txs []core.Transaction, year int, month time.Month) RollupSummary {
	var filtered []core.Transaction
	for _, tx := range txs {
		if tx.Date.SameMonth(year, month) {
			filtered = append(filtered, tx)
		}
	}
	return Rollup(filtered)
}
