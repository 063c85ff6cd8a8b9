package models

import "github.com/shopspring/decimal"

// Expense represents one payment made on behalf of some group members.
// Expenses are immutable once recorded.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group whose ledger this expense belongs to.
	GroupID string

	// Description is the human-readable label (e.g., "Dinner", "Cab").
	Description string

	// Amount is the total paid, in two-decimal fixed point.
	Amount decimal.Decimal

	// Payer is the member who advanced the full amount.
	Payer string

	// Participants are the members sharing the cost, in the order given.
	// The payer may or may not be one of them.
	Participants []string

	// SplitKind is the policy name: "equal", "unequal", "percent" or "shares".
	SplitKind string

	// Portions are the raw per-participant inputs for the policy: amounts,
	// percentages or share counts. Empty for equal splits.
	Portions []Portion

	// CreatedAt is the Unix timestamp (nanoseconds) when the expense was recorded.
	// Nanoseconds keep replay order stable for expenses recorded in the same second.
	CreatedAt int64

	// CreatedBy is the user ID who recorded this expense.
	CreatedBy string
}

// Portion is one participant's raw split input.
type Portion struct {
	Participant string
	Value       decimal.Decimal
}
