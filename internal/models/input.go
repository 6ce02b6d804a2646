package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrValidation is wrapped by every error caused by invalid user input.
var ErrValidation = errors.New("validation failed")

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}

// AmountPlaces is the number of fractional digits an expense amount may carry.
const AmountPlaces = 2

// ExpenseInput holds the raw values submitted from the expense form.
type ExpenseInput struct {
	Description  string
	Amount       string
	PaidBy       string
	Date         string
	SplitBetween []string
	SplitType    string // empty means equal
}

// ParseExpenseInput validates the form values against the current registry.
// It returns a draft only when every field is valid; otherwise the error joins
// one *FieldError per invalid field.
func ParseExpenseInput(in ExpenseInput, people []string) (ExpenseDraft, error) {
	var errs []error
	fail := func(field, format string, args ...any) {
		errs = append(errs, &FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		fail("description", "is required")
	}

	var amount decimal.Decimal
	if raw := strings.TrimSpace(in.Amount); raw == "" {
		fail("amount", "is required")
	} else if parsed, err := decimal.NewFromString(raw); err != nil {
		fail("amount", "must be a number")
	} else if !parsed.IsPositive() {
		fail("amount", "must be greater than zero")
	} else if !parsed.Equal(parsed.Truncate(AmountPlaces)) {
		fail("amount", "must have at most %d decimal places", AmountPlaces)
	} else {
		amount = parsed
	}

	paidBy := strings.TrimSpace(in.PaidBy)
	if paidBy == "" {
		fail("paid_by", "is required")
	} else if !slices.Contains(people, paidBy) {
		fail("paid_by", "%q is not a registered person", paidBy)
	}

	var date time.Time
	if raw := strings.TrimSpace(in.Date); raw == "" {
		fail("date", "is required")
	} else if parsed, err := ParseDate(raw); err != nil {
		fail("date", "must be an ISO 8601 date (YYYY-MM-DD)")
	} else {
		date = parsed
	}

	var splitBetween []string
	for _, name := range in.SplitBetween {
		name = strings.TrimSpace(name)
		if name == "" || slices.Contains(splitBetween, name) {
			continue
		}
		if !slices.Contains(people, name) {
			fail("split_between", "%q is not a registered person", name)
			continue
		}
		splitBetween = append(splitBetween, name)
	}
	if len(splitBetween) == 0 && len(in.SplitBetween) == 0 {
		fail("split_between", "select at least one person")
	} else if len(splitBetween) == 0 {
		fail("split_between", "no registered person selected")
	}

	kind, err := ParseSplitKind(strings.TrimSpace(in.SplitType))
	if err != nil {
		fail("split_type", "%v", err)
	} else if kind != SplitEqual {
		fail("split_type", "only equal splits are supported")
	}

	if len(errs) > 0 {
		return ExpenseDraft{}, errors.Join(errs...)
	}

	return ExpenseDraft{
		description:  description,
		amount:       amount,
		paidBy:       paidBy,
		splitBetween: splitBetween,
		date:         date,
		split:        EqualSplit{},
	}, nil
}

// ParseDate accepts a YYYY-MM-DD date or an RFC 3339 timestamp and returns
// the calendar date at UTC midnight.
func ParseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// NormalizePersonName trims a person name and rejects empty names.
func NormalizePersonName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &FieldError{Field: "name", Message: "is required"}
	}
	return name, nil
}
