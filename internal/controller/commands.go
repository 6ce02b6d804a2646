package controller

import "github.com/mmynk/expensesplit/internal/models"

// Command is a mutation request handled by Controller.Dispatch.
type Command interface {
	// CommandName identifies the command in logs and metrics.
	CommandName() string
}

// AddPerson appends a trimmed name to the registry. Duplicates are a no-op.
type AddPerson struct {
	Name string
}

// RemovePerson deletes a name from the registry. Expenses naming the person are kept.
type RemovePerson struct {
	Name string
}

// AddExpense validates the form input and appends a new expense.
type AddExpense struct {
	Input models.ExpenseInput
}

// RemoveExpense deletes the expense with the given ID. Unknown IDs are a no-op.
type RemoveExpense struct {
	ID int64
}

func (AddPerson) CommandName() string     { return "add_person" }
func (RemovePerson) CommandName() string  { return "remove_person" }
func (AddExpense) CommandName() string    { return "add_expense" }
func (RemoveExpense) CommandName() string { return "remove_expense" }

// Result reports what a command changed.
type Result struct {
	// Added is set when AddPerson appended a name or AddExpense appended a record.
	Added bool

	// Removed is set when RemovePerson or RemoveExpense deleted something.
	Removed bool

	// StillReferenced is set by RemovePerson when the removed name still
	// appears as a payer or participant in the ledger.
	StillReferenced bool

	// Person is the normalized name for person commands.
	Person string

	// People is the registry as it stood right after a person command.
	People []string

	// Expense is the created record for AddExpense.
	Expense *models.Expense
}
