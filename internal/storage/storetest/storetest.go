// Package storetest holds the behaviour every storage.Store implementation must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/expensesplit/internal/models"
	"github.com/mmynk/expensesplit/internal/storage"
)

// Expense builds an equal-split expense dated 2024-03-15.
func Expense(id int64, description, amount, paidBy string, splitBetween ...string) models.Expense {
	return models.Expense{
		ID:           id,
		Description:  description,
		Amount:       decimal.RequireFromString(amount),
		PaidBy:       paidBy,
		SplitBetween: splitBetween,
		Date:         time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Split:        models.EqualSplit{},
	}
}

// Run exercises a fresh store returned by newStore for each subtest.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	ctx := context.Background()

	t.Run("AddPerson keeps insertion order and ignores duplicates", func(t *testing.T) {
		store := newStore(t)

		for _, name := range []string{"Carol", "Alice", "Bob"} {
			added, err := store.AddPerson(ctx, name)
			require.NoError(t, err)
			assert.True(t, added, name)
		}

		added, err := store.AddPerson(ctx, "Alice")
		require.NoError(t, err)
		assert.False(t, added)

		added, err = store.AddPerson(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, added, "names are case-sensitive")

		people, err := store.ListPeople(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Carol", "Alice", "Bob", "alice"}, people)
	})

	t.Run("RemovePerson removes exact name only", func(t *testing.T) {
		store := newStore(t)
		for _, name := range []string{"Alice", "Bob", "bob"} {
			_, err := store.AddPerson(ctx, name)
			require.NoError(t, err)
		}

		removed, err := store.RemovePerson(ctx, "Bob")
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = store.RemovePerson(ctx, "Bob")
		require.NoError(t, err)
		assert.False(t, removed)

		people, err := store.ListPeople(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Alice", "bob"}, people)
	})

	t.Run("RemovePerson leaves expenses untouched", func(t *testing.T) {
		store := newStore(t)
		for _, name := range []string{"Alice", "Bob"} {
			_, err := store.AddPerson(ctx, name)
			require.NoError(t, err)
		}
		require.NoError(t, store.AddExpense(ctx, Expense(1, "Lunch", "20", "Bob", "Alice", "Bob")))

		_, err := store.RemovePerson(ctx, "Bob")
		require.NoError(t, err)

		expenses, err := store.ListExpenses(ctx)
		require.NoError(t, err)
		require.Len(t, expenses, 1)
		assert.Equal(t, "Bob", expenses[0].PaidBy)
		assert.Equal(t, []string{"Alice", "Bob"}, expenses[0].SplitBetween)
	})

	t.Run("AddExpense round trips every field", func(t *testing.T) {
		store := newStore(t)
		original := Expense(1710460800000, "Dinner", "90.50", "Alice", "Carol", "Alice", "Bob")

		require.NoError(t, store.AddExpense(ctx, original))

		expenses, err := store.ListExpenses(ctx)
		require.NoError(t, err)
		require.Len(t, expenses, 1)

		got := expenses[0]
		assert.Equal(t, original.ID, got.ID)
		assert.Equal(t, original.Description, got.Description)
		assert.True(t, original.Amount.Equal(got.Amount), "amount = %s", got.Amount)
		assert.Equal(t, original.PaidBy, got.PaidBy)
		assert.Equal(t, original.SplitBetween, got.SplitBetween)
		assert.True(t, original.Date.Equal(got.Date), "date = %v", got.Date)
		assert.Equal(t, models.SplitEqual, got.SplitKind())
	})

	t.Run("AddExpense rejects duplicate IDs", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.AddExpense(ctx, Expense(7, "Taxi", "12", "Alice", "Alice")))
		assert.Error(t, store.AddExpense(ctx, Expense(7, "Taxi again", "12", "Alice", "Alice")))

		expenses, err := store.ListExpenses(ctx)
		require.NoError(t, err)
		assert.Len(t, expenses, 1)
	})

	t.Run("ListExpenses keeps insertion order", func(t *testing.T) {
		store := newStore(t)
		for _, id := range []int64{30, 10, 20} {
			require.NoError(t, store.AddExpense(ctx, Expense(id, "Item", "1", "Alice", "Alice")))
		}

		expenses, err := store.ListExpenses(ctx)
		require.NoError(t, err)
		require.Len(t, expenses, 3)
		assert.Equal(t, int64(30), expenses[0].ID)
		assert.Equal(t, int64(10), expenses[1].ID)
		assert.Equal(t, int64(20), expenses[2].ID)
	})

	t.Run("RemoveExpense", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.AddExpense(ctx, Expense(1, "Coffee", "4", "Alice", "Alice")))
		require.NoError(t, store.AddExpense(ctx, Expense(2, "Tea", "3", "Bob", "Bob")))

		removed, err := store.RemoveExpense(ctx, 1)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = store.RemoveExpense(ctx, 99)
		require.NoError(t, err)
		assert.False(t, removed)

		expenses, err := store.ListExpenses(ctx)
		require.NoError(t, err)
		require.Len(t, expenses, 1)
		assert.Equal(t, int64(2), expenses[0].ID)
	})

	t.Run("ListExpenses returns copies", func(t *testing.T) {
		store := newStore(t)
		require.NoError(t, store.AddExpense(ctx, Expense(1, "Snacks", "6", "Alice", "Alice", "Bob")))

		expenses, err := store.ListExpenses(ctx)
		require.NoError(t, err)
		expenses[0].SplitBetween[0] = "Mallory"

		again, err := store.ListExpenses(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Alice", "Bob"}, again[0].SplitBetween)
	})
}
