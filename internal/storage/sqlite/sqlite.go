// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
//
// The database is always opened in memory: state lives only as long as the store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/expensesplit/internal/models"
	"github.com/mmynk/expensesplit/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using an in-memory SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// New opens a fresh in-memory database and runs migrations.
func New(ctx context.Context) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each connection to :memory: is its own database; pin the pool to one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection, discarding all data.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListPeople returns registry names in insertion order.
func (s *SQLiteStore) ListPeople(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM people ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	people := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}
	return people, nil
}

// AddPerson inserts a name unless it is already registered.
func (s *SQLiteStore) AddPerson(ctx context.Context, name string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO people (name) VALUES (?) ON CONFLICT(name) DO NOTHING",
		name,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert person: %w", err)
	}
	return affected(result)
}

// RemovePerson deletes a name from the registry. Expenses are not touched.
func (s *SQLiteStore) RemovePerson(ctx context.Context, name string) (bool, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM people WHERE name = ?", name)
	if err != nil {
		return false, fmt.Errorf("failed to delete person: %w", err)
	}
	return affected(result)
}

// AddExpense persists an expense and its participants in one transaction.
func (s *SQLiteStore) AddExpense(ctx context.Context, expense models.Expense) error {
	splitType, splitData, err := encodeSplit(expense.Split)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, description, amount, paid_by, expense_date, split_type, split_data)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.Amount.String(), expense.PaidBy,
		expense.Date.UTC().Format(models.DateLayout), splitType, splitData,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, name := range expense.SplitBetween {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, position, name) VALUES (?, ?, ?)",
			expense.ID, i, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpenses returns the ledger in insertion order, including participants.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	expenses, err := s.queryExpenses(ctx)
	if err != nil {
		return nil, err
	}

	// A single pooled connection means the expense rows must be closed before this query.
	participants, err := s.queryParticipants(ctx)
	if err != nil {
		return nil, err
	}
	for i := range expenses {
		expenses[i].SplitBetween = participants[expenses[i].ID]
	}
	return expenses, nil
}

// RemoveExpense deletes an expense; participants cascade.
func (s *SQLiteStore) RemoveExpense(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete expense: %w", err)
	}
	return affected(result)
}

func (s *SQLiteStore) queryExpenses(ctx context.Context) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, amount, paid_by, expense_date, split_type, split_data
		 FROM expenses ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []models.Expense{}
	for rows.Next() {
		var (
			e         models.Expense
			amount    string
			date      string
			splitType string
			splitData sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Description, &amount, &e.PaidBy, &date, &splitType, &splitData); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if e.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("expense %d: invalid amount %q: %w", e.ID, amount, err)
		}
		if e.Date, err = time.Parse(models.DateLayout, date); err != nil {
			return nil, fmt.Errorf("expense %d: invalid date %q: %w", e.ID, date, err)
		}
		if e.Split, err = decodeSplit(splitType, splitData); err != nil {
			return nil, fmt.Errorf("expense %d: %w", e.ID, err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

func (s *SQLiteStore) queryParticipants(ctx context.Context) (map[int64][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT expense_id, name FROM expense_participants ORDER BY expense_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	participants := make(map[int64][]string)
	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants[id] = append(participants[id], name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return participants, nil
}

// encodeSplit maps a split variant to its tag and optional per-person data.
func encodeSplit(split models.Split) (string, sql.NullString, error) {
	var data map[string]decimal.Decimal
	switch v := split.(type) {
	case nil, models.EqualSplit:
		return string(models.SplitEqual), sql.NullString{}, nil
	case models.ExactSplit:
		data = v.Amounts
	case models.PercentageSplit:
		data = v.Shares
	default:
		return "", sql.NullString{}, fmt.Errorf("unknown split variant %T", split)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", sql.NullString{}, fmt.Errorf("failed to encode split: %w", err)
	}
	return string(split.Kind()), sql.NullString{String: string(raw), Valid: true}, nil
}

func decodeSplit(tag string, data sql.NullString) (models.Split, error) {
	kind, err := models.ParseSplitKind(tag)
	if err != nil {
		return nil, err
	}
	if kind == models.SplitEqual {
		return models.EqualSplit{}, nil
	}

	values := map[string]decimal.Decimal{}
	if data.Valid {
		if err := json.Unmarshal([]byte(data.String), &values); err != nil {
			return nil, fmt.Errorf("failed to decode split: %w", err)
		}
	}
	if kind == models.SplitExact {
		return models.ExactSplit{Amounts: values}, nil
	}
	return models.PercentageSplit{Shares: values}, nil
}

func affected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}
