package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/expensesplit/internal/models"
)

// Epsilon is the magnitude below which a balance counts as settled.
var Epsilon = decimal.New(5, -3)

// MemberBalance represents the balance information for one person.
type MemberBalance struct {
	MemberName string
	NetBalance decimal.Decimal // Positive = owed money, Negative = owes money
	TotalPaid  decimal.Decimal // Total amount paid across all expenses
	TotalOwed  decimal.Decimal // Total of this person's shares across all expenses
}

// DebtEdge represents a transfer from one person to another in a settlement plan.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// Report is the full result of a balance calculation.
type Report struct {
	Balances    []MemberBalance
	Settlements []DebtEdge
	TotalSpent  decimal.Decimal
}

// Calculate computes net balances and a settlement plan for the given registry and ledger.
func Calculate(people []string, expenses []models.Expense) (Report, error) {
	balances, err := CalculateBalances(people, expenses)
	if err != nil {
		return Report{}, err
	}

	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}

	return Report{
		Balances:    balances,
		Settlements: SimplifyDebts(balances),
		TotalSpent:  total,
	}, nil
}

// CalculateBalances aggregates who paid what and who owes what.
//
// Every registry member is represented, followed by any payer or participant
// that is no longer in the registry, in order of first appearance.
//
// Algorithm:
// - For each expense: payer contributed +amount, each participant owes their share
// - A payer who is also a participant owes their own share like everyone else
// - Aggregate: net_balance = total_paid - total_owed
func CalculateBalances(people []string, expenses []models.Expense) ([]MemberBalance, error) {
	var order []string
	balances := make(map[string]*MemberBalance)
	track := func(name string) *MemberBalance {
		if bal, exists := balances[name]; exists {
			return bal
		}
		bal := &MemberBalance{MemberName: name}
		balances[name] = bal
		order = append(order, name)
		return bal
	}

	for _, p := range people {
		track(p)
	}

	for _, e := range expenses {
		shares, err := CalculateShares(e)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate shares: %w", err)
		}

		payer := track(e.PaidBy)
		payer.TotalPaid = payer.TotalPaid.Add(e.Amount)

		for _, s := range shares {
			bal := track(s.Participant)
			bal.TotalOwed = bal.TotalOwed.Add(s.Amount)
		}
	}

	result := make([]MemberBalance, len(order))
	for i, name := range order {
		bal := balances[name]
		bal.NetBalance = bal.TotalPaid.Sub(bal.TotalOwed)
		result[i] = *bal
	}
	return result, nil
}

// SimplifyDebts produces a settlement plan from net balances.
//
// Greedy algorithm: repeatedly match the largest debtor with the largest creditor
// and transfer the smaller of the two amounts. Ties go to whoever comes first in
// balances. Balances within Epsilon of zero count as settled and never appear in
// the plan. Each step settles at least one person, so the plan has at most n-1 edges.
func SimplifyDebts(balances []MemberBalance) []DebtEdge {
	names := make([]string, len(balances))
	remaining := make([]decimal.Decimal, len(balances))
	for i, bal := range balances {
		names[i] = bal.MemberName
		remaining[i] = settle(bal.NetBalance)
	}

	var edges []DebtEdge
	for {
		debtor, creditor := -1, -1
		for i, amount := range remaining {
			if amount.IsNegative() && (debtor < 0 || amount.LessThan(remaining[debtor])) {
				debtor = i
			}
			if amount.IsPositive() && (creditor < 0 || amount.GreaterThan(remaining[creditor])) {
				creditor = i
			}
		}
		if debtor < 0 || creditor < 0 {
			return edges
		}

		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := decimal.Min(remaining[debtor].Neg(), remaining[creditor])
		edges = append(edges, DebtEdge{
			From:   names[debtor],
			To:     names[creditor],
			Amount: amount,
		})

		remaining[debtor] = settle(remaining[debtor].Add(amount))
		remaining[creditor] = settle(remaining[creditor].Sub(amount))
	}
}

// settle snaps balances within Epsilon of zero to exactly zero.
func settle(amount decimal.Decimal) decimal.Decimal {
	if amount.Abs().LessThanOrEqual(Epsilon) {
		return decimal.Zero
	}
	return amount
}
