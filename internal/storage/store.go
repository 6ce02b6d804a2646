// Package storage provides abstractions for the registry and ledger state.
package storage

import (
	"context"

	"github.com/mmynk/expensesplit/internal/models"
)

// Store defines the interface for people and expense storage operations.
// This abstraction allows swapping backends (plain memory, in-memory SQLite)
// without changing the controller.
//
// Implementations are not required to be safe for concurrent use; the
// controller serializes every call.
type Store interface {
	// ListPeople returns the registry in insertion order.
	ListPeople(ctx context.Context) ([]string, error)

	// AddPerson appends a name to the registry.
	// Returns false without error if the exact name is already present.
	AddPerson(ctx context.Context, name string) (bool, error)

	// RemovePerson deletes every occurrence of the exact name.
	// Returns false without error if the name was not present.
	RemovePerson(ctx context.Context, name string) (bool, error)

	// ListExpenses returns the ledger in insertion order.
	ListExpenses(ctx context.Context) ([]models.Expense, error)

	// AddExpense appends an expense. The expense ID must already be set and unique.
	AddExpense(ctx context.Context, expense models.Expense) error

	// RemoveExpense deletes the expense with the given ID.
	// Returns false without error if no such expense exists.
	RemoveExpense(ctx context.Context, id int64) (bool, error)

	// Close releases any resources held by the store.
	Close() error
}
