package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/expensesplit/internal/models"
)

var (
	// ErrEmptySplit means an expense has nobody to split between.
	// Expenses are validated on creation, so this indicates a corrupted ledger.
	ErrEmptySplit = errors.New("expense must be split between at least one person")

	// ErrUnsupportedSplit means the expense uses a split variant the calculator does not handle yet.
	ErrUnsupportedSplit = errors.New("unsupported split type")
)

// Share is one participant's portion of an expense.
type Share struct {
	Participant string
	Amount      decimal.Decimal
}

// CalculateShares computes how much each participant owes for one expense.
// Shares are returned in SplitBetween order.
func CalculateShares(e models.Expense) ([]Share, error) {
	if len(e.SplitBetween) == 0 {
		return nil, fmt.Errorf("expense %d: %w", e.ID, ErrEmptySplit)
	}

	switch e.SplitKind() {
	case models.SplitEqual:
		perPerson := e.Amount.Div(decimal.NewFromInt(int64(len(e.SplitBetween))))
		shares := make([]Share, len(e.SplitBetween))
		for i, p := range e.SplitBetween {
			shares[i] = Share{Participant: p, Amount: perPerson}
		}
		return shares, nil
	default:
		return nil, fmt.Errorf("expense %d: %w: %s", e.ID, ErrUnsupportedSplit, e.SplitKind())
	}
}
