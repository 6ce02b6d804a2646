// Package seed provides the static data loaded when the application starts.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/expensesplit/internal/models"
	"github.com/mmynk/expensesplit/internal/storage"
)

// People is the initial registry.
func People() []string {
	return []string{"Alice", "Bob", "Charlie", "Diana"}
}

// Expenses is the initial ledger. IDs are fixed so every start looks the same.
func Expenses() []models.Expense {
	day := func(d int) time.Time { return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC) }
	return []models.Expense{
		{
			ID:           1,
			Description:  "Groceries",
			Amount:       decimal.RequireFromString("120.00"),
			PaidBy:       "Alice",
			SplitBetween: []string{"Alice", "Bob", "Charlie", "Diana"},
			Date:         day(15),
			Split:        models.EqualSplit{},
		},
		{
			ID:           2,
			Description:  "Movie tickets",
			Amount:       decimal.RequireFromString("45.00"),
			PaidBy:       "Bob",
			SplitBetween: []string{"Alice", "Bob", "Charlie"},
			Date:         day(17),
			Split:        models.EqualSplit{},
		},
		{
			ID:           3,
			Description:  "Taxi",
			Amount:       decimal.RequireFromString("30.00"),
			PaidBy:       "Charlie",
			SplitBetween: []string{"Charlie", "Diana"},
			Date:         day(20),
			Split:        models.EqualSplit{},
		},
	}
}

// Load writes the initial people and expenses into store.
func Load(ctx context.Context, store storage.Store) error {
	for _, p := range People() {
		if _, err := store.AddPerson(ctx, p); err != nil {
			return fmt.Errorf("failed to seed person %q: %w", p, err)
		}
	}
	for _, e := range Expenses() {
		if err := store.AddExpense(ctx, e); err != nil {
			return fmt.Errorf("failed to seed expense %d: %w", e.ID, err)
		}
	}
	return nil
}
