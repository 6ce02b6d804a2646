package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SplitKind is the tag of a Split variant.
type SplitKind string

const (
	SplitEqual      SplitKind = "equal"
	SplitExact      SplitKind = "exact"
	SplitPercentage SplitKind = "percentage"
)

// Split describes how an expense amount is divided among its participants.
// The set of variants is closed: EqualSplit, ExactSplit and PercentageSplit.
type Split interface {
	Kind() SplitKind
	split()
}

// EqualSplit divides the amount evenly among every listed participant.
type EqualSplit struct{}

// ExactSplit assigns a fixed amount to each participant.
// Reserved: not accepted when creating expenses.
type ExactSplit struct {
	Amounts map[string]decimal.Decimal
}

// PercentageSplit assigns a percentage of the amount to each participant.
// Reserved: not accepted when creating expenses.
type PercentageSplit struct {
	Shares map[string]decimal.Decimal
}

func (EqualSplit) Kind() SplitKind      { return SplitEqual }
func (ExactSplit) Kind() SplitKind      { return SplitExact }
func (PercentageSplit) Kind() SplitKind { return SplitPercentage }

func (EqualSplit) split()      {}
func (ExactSplit) split()      {}
func (PercentageSplit) split() {}

// ParseSplitKind maps a split type tag to its kind. An empty tag means equal.
func ParseSplitKind(tag string) (SplitKind, error) {
	switch SplitKind(tag) {
	case "", SplitEqual:
		return SplitEqual, nil
	case SplitExact:
		return SplitExact, nil
	case SplitPercentage:
		return SplitPercentage, nil
	default:
		return "", fmt.Errorf("unknown split type %q", tag)
	}
}
