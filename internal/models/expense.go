package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO 8601 calendar date layout used for expense dates.
const DateLayout = "2006-01-02"

// Expense is a single immutable record in the ledger.
type Expense struct {
	// ID is the creation-time identifier, a millisecond Unix timestamp.
	// Unique within a ledger and never reused.
	ID int64

	// Description is what the money was spent on (e.g., "Dinner", "Taxi").
	Description string

	// Amount is the total paid. Always positive.
	Amount decimal.Decimal

	// PaidBy is the name of the person who paid.
	// Was a registry member when the expense was created; may have been removed since.
	PaidBy string

	// SplitBetween lists the people sharing the expense, in the order they were selected.
	// Never empty and free of duplicates.
	SplitBetween []string

	// Date is the calendar date of the expense at UTC midnight.
	Date time.Time

	// Split describes how Amount is divided. Currently always EqualSplit.
	Split Split
}

// SplitKind returns the tag of the expense's split, defaulting to equal.
func (e Expense) SplitKind() SplitKind {
	if e.Split == nil {
		return SplitEqual
	}
	return e.Split.Kind()
}

// Involves reports whether name is the payer or one of the participants.
func (e Expense) Involves(name string) bool {
	if e.PaidBy == name {
		return true
	}
	for _, p := range e.SplitBetween {
		if p == name {
			return true
		}
	}
	return false
}

// ExpenseDraft is a fully validated expense that has not been assigned an ID yet.
// It can only be obtained from ParseExpenseInput.
type ExpenseDraft struct {
	description  string
	amount       decimal.Decimal
	paidBy       string
	splitBetween []string
	date         time.Time
	split        Split
}

// WithID turns the draft into a ledger record.
func (d ExpenseDraft) WithID(id int64) Expense {
	return Expense{
		ID:           id,
		Description:  d.description,
		Amount:       d.amount,
		PaidBy:       d.paidBy,
		SplitBetween: append([]string(nil), d.splitBetween...),
		Date:         d.date,
		Split:        d.split,
	}
}
