// Package api defines the JSON messages of the expensesplit.v1.LedgerService API.
//
// Amounts travel as decimal strings. Requests carry them exactly as typed in
// the form; responses round them to two decimal places for display.
package api

// Expense is a ledger record as shown to clients.
type Expense struct {
	ID           int64    `json:"id"`
	Description  string   `json:"description"`
	Amount       string   `json:"amount"`
	PaidBy       string   `json:"paidBy"`
	SplitBetween []string `json:"splitBetween"`
	Date         string   `json:"date"` // YYYY-MM-DD
	SplitType    string   `json:"splitType"`
}

// MemberBalance is one person's position across the ledger.
type MemberBalance struct {
	Name       string `json:"name"`
	NetBalance string `json:"netBalance"` // positive = is owed, negative = owes
	TotalPaid  string `json:"totalPaid"`
	TotalOwed  string `json:"totalOwed"`
}

// Settlement is one transfer of the settlement plan.
type Settlement struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type ListPeopleRequest struct{}

type ListPeopleResponse struct {
	People []string `json:"people"`
}

type AddPersonRequest struct {
	Name string `json:"name"`
}

type AddPersonResponse struct {
	Added  bool     `json:"added"`
	People []string `json:"people"`
}

type RemovePersonRequest struct {
	Name string `json:"name"`
}

type RemovePersonResponse struct {
	Removed bool `json:"removed"`
	// StillReferenced is set when the removed person still appears in existing expenses.
	StillReferenced bool     `json:"stillReferenced"`
	People          []string `json:"people"`
}

type ListExpensesRequest struct{}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type AddExpenseRequest struct {
	Description  string   `json:"description"`
	Amount       string   `json:"amount"`
	PaidBy       string   `json:"paidBy"`
	Date         string   `json:"date"`
	SplitBetween []string `json:"splitBetween"`
	SplitType    string   `json:"splitType,omitempty"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type RemoveExpenseRequest struct {
	ID int64 `json:"id"`
}

type RemoveExpenseResponse struct {
	Removed bool `json:"removed"`
}

type GetBalancesRequest struct{}

type GetBalancesResponse struct {
	Balances    []*MemberBalance `json:"balances"`
	Settlements []*Settlement    `json:"settlements"`
	TotalSpent  string           `json:"totalSpent"`
}
