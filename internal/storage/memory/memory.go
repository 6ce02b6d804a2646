// Package memory provides a slice-backed implementation of the storage.Store interface.
package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/mmynk/expensesplit/internal/models"
	"github.com/mmynk/expensesplit/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// Store keeps the registry and ledger in plain slices.
type Store struct {
	people   []string
	expenses []models.Expense
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// ListPeople returns a copy of the registry.
func (s *Store) ListPeople(ctx context.Context) ([]string, error) {
	return slices.Clone(s.people), nil
}

// AddPerson appends name unless it is already registered.
func (s *Store) AddPerson(ctx context.Context, name string) (bool, error) {
	if slices.Contains(s.people, name) {
		return false, nil
	}
	s.people = append(s.people, name)
	return true, nil
}

// RemovePerson deletes all occurrences of name.
func (s *Store) RemovePerson(ctx context.Context, name string) (bool, error) {
	before := len(s.people)
	s.people = slices.DeleteFunc(s.people, func(p string) bool { return p == name })
	return len(s.people) < before, nil
}

// ListExpenses returns a copy of the ledger.
func (s *Store) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	out := make([]models.Expense, len(s.expenses))
	for i, e := range s.expenses {
		e.SplitBetween = slices.Clone(e.SplitBetween)
		out[i] = e
	}
	return out, nil
}

// AddExpense appends an expense, rejecting duplicate IDs.
func (s *Store) AddExpense(ctx context.Context, expense models.Expense) error {
	if slices.ContainsFunc(s.expenses, func(e models.Expense) bool { return e.ID == expense.ID }) {
		return fmt.Errorf("expense %d already exists", expense.ID)
	}
	expense.SplitBetween = slices.Clone(expense.SplitBetween)
	s.expenses = append(s.expenses, expense)
	return nil
}

// RemoveExpense deletes the expense with the given ID.
func (s *Store) RemoveExpense(ctx context.Context, id int64) (bool, error) {
	before := len(s.expenses)
	s.expenses = slices.DeleteFunc(s.expenses, func(e models.Expense) bool { return e.ID == id })
	return len(s.expenses) < before, nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
