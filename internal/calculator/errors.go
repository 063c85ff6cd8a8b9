package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationError reports inputs that cannot be turned into a balanced
// ledger update. The caller can correct the input and resubmit.
type ValidationError struct {
	Op     string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func invalid(op, format string, args ...any) error {
	return &ValidationError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

// InvariantViolation means the balances no longer sum to zero. It indicates a
// programming fault, not bad input.
type InvariantViolation struct {
	Total decimal.Decimal
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("conservation violated: balances sum to %s", e.Total.StringFixed(2))
}
