// Package controller owns the application state: the people registry and the expense ledger.
//
// Every mutation is an explicit Command passed to Dispatch. Commands run one at a
// time to completion, so the state always has a single logical writer. Readers get
// copies via Snapshot, and Balances recomputes the full report on every call.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/expensesplit/internal/calculator"
	"github.com/mmynk/expensesplit/internal/metrics"
	"github.com/mmynk/expensesplit/internal/models"
	"github.com/mmynk/expensesplit/internal/storage"
)

// State is a read-only copy of the registry and ledger.
type State struct {
	People   []string
	Expenses []models.Expense
}

// Controller serializes commands against a Store.
type Controller struct {
	mu      sync.Mutex
	store   storage.Store
	now     func() time.Time
	metrics *metrics.Metrics
	lastID  int64
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used to generate expense IDs.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithMetrics records command outcomes and ledger sizes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// New creates a Controller over store. Existing expenses in the store are
// kept and new IDs are generated above the highest existing one.
func New(ctx context.Context, store storage.Store, opts ...Option) (*Controller, error) {
	c := &Controller{store: store, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	state, err := c.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range state.Expenses {
		c.lastID = max(c.lastID, e.ID)
	}
	c.metrics.SetLedgerSize(len(state.People), len(state.Expenses))
	return c, nil
}

// Dispatch applies one command. No-op conditions are reported through Result,
// not as errors. Invalid input returns an error wrapping models.ErrValidation.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		result Result
		err    error
	)
	switch cmd := cmd.(type) {
	case AddPerson:
		result, err = c.addPerson(ctx, cmd)
	case RemovePerson:
		result, err = c.removePerson(ctx, cmd)
	case AddExpense:
		result, err = c.addExpense(ctx, cmd)
	case RemoveExpense:
		result, err = c.removeExpense(ctx, cmd)
	default:
		return Result{}, fmt.Errorf("unknown command %T", cmd)
	}

	outcome := metrics.OutcomeApplied
	switch {
	case errors.Is(err, models.ErrValidation):
		outcome = metrics.OutcomeRejected
		slog.Info("Command rejected", "command", cmd.CommandName(), "error", err)
	case err != nil:
		outcome = metrics.OutcomeFailed
		slog.Error("Command failed", "command", cmd.CommandName(), "error", err)
	case !result.Added && !result.Removed:
		outcome = metrics.OutcomeNoop
		slog.Debug("Command was a no-op", "command", cmd.CommandName())
	default:
		slog.Info("Command applied", "command", cmd.CommandName())
	}
	c.metrics.ObserveCommand(cmd.CommandName(), outcome)

	if outcome == metrics.OutcomeApplied && c.metrics != nil {
		if state, err := c.snapshot(ctx); err == nil {
			c.metrics.SetLedgerSize(len(state.People), len(state.Expenses))
		}
	}
	return result, err
}

// Snapshot returns a copy of the current registry and ledger.
func (c *Controller) Snapshot(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot(ctx)
}

// People returns the current registry.
func (c *Controller) People(ctx context.Context) ([]string, error) {
	state, err := c.Snapshot(ctx)
	return state.People, err
}

// Expenses returns the current ledger.
func (c *Controller) Expenses(ctx context.Context) ([]models.Expense, error) {
	state, err := c.Snapshot(ctx)
	return state.Expenses, err
}

// Balances computes net balances and a settlement plan from the current state.
func (c *Controller) Balances(ctx context.Context) (calculator.Report, error) {
	state, err := c.Snapshot(ctx)
	if err != nil {
		return calculator.Report{}, err
	}

	report, err := calculator.Calculate(state.People, state.Expenses)
	if err != nil {
		return calculator.Report{}, fmt.Errorf("failed to calculate balances: %w", err)
	}
	c.metrics.SetSettlements(len(report.Settlements))
	return report, nil
}

func (c *Controller) snapshot(ctx context.Context) (State, error) {
	people, err := c.store.ListPeople(ctx)
	if err != nil {
		return State{}, fmt.Errorf("failed to list people: %w", err)
	}
	expenses, err := c.store.ListExpenses(ctx)
	if err != nil {
		return State{}, fmt.Errorf("failed to list expenses: %w", err)
	}
	return State{People: people, Expenses: expenses}, nil
}

func (c *Controller) addPerson(ctx context.Context, cmd AddPerson) (Result, error) {
	name, err := models.NormalizePersonName(cmd.Name)
	if err != nil {
		return Result{}, err
	}

	added, err := c.store.AddPerson(ctx, name)
	if err != nil {
		return Result{}, fmt.Errorf("failed to add person: %w", err)
	}

	people, err := c.store.ListPeople(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list people: %w", err)
	}
	return Result{Added: added, Person: name, People: people}, nil
}

func (c *Controller) removePerson(ctx context.Context, cmd RemovePerson) (Result, error) {
	name, err := models.NormalizePersonName(cmd.Name)
	if err != nil {
		return Result{}, err
	}

	removed, err := c.store.RemovePerson(ctx, name)
	if err != nil {
		return Result{}, fmt.Errorf("failed to remove person: %w", err)
	}

	people, err := c.store.ListPeople(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list people: %w", err)
	}

	result := Result{Removed: removed, Person: name, People: people}
	if !removed {
		return result, nil
	}

	expenses, err := c.store.ListExpenses(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list expenses: %w", err)
	}
	for _, e := range expenses {
		if e.Involves(name) {
			result.StillReferenced = true
			slog.Info("Removed person still appears in the ledger", "person", name, "expense_id", e.ID)
			break
		}
	}
	return result, nil
}

func (c *Controller) addExpense(ctx context.Context, cmd AddExpense) (Result, error) {
	people, err := c.store.ListPeople(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list people: %w", err)
	}

	draft, err := models.ParseExpenseInput(cmd.Input, people)
	if err != nil {
		return Result{}, err
	}

	expense := draft.WithID(c.nextID())
	if err := c.store.AddExpense(ctx, expense); err != nil {
		return Result{}, fmt.Errorf("failed to add expense: %w", err)
	}
	return Result{Added: true, Expense: &expense}, nil
}

func (c *Controller) removeExpense(ctx context.Context, cmd RemoveExpense) (Result, error) {
	removed, err := c.store.RemoveExpense(ctx, cmd.ID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to remove expense: %w", err)
	}
	return Result{Removed: removed}, nil
}

// nextID returns the current time in milliseconds, bumped past the last issued ID.
func (c *Controller) nextID() int64 {
	id := c.now().UnixMilli()
	if id <= c.lastID {
		id = c.lastID + 1
	}
	c.lastID = id
	return id
}
