// Package models defines the core domain models for the expense splitter.
//
// # Models
//
//   - Person: a participant, identified by the exact display name (string)
//   - Expense: an immutable ledger record naming a payer and the people splitting it
//   - Split: the tagged variant describing how an expense is divided
//   - ExpenseInput: raw form values, turned into an ExpenseDraft only when valid
//
// People are plain strings. There are no user accounts and no separate
// identifiers; two people with the same name are the same person.
//
// # Split variants
//
// EqualSplit is the only variant accepted when an expense is created.
// ExactSplit and PercentageSplit are modelled so that the calculator and the
// stores can grow into them without changing the Expense shape.
//
// # Lifecycle
//
// Expenses are created from a validated draft, appended to the ledger, and
// destroyed only by explicit removal. Removing a person from the registry
// leaves every expense that names them untouched.
package models
