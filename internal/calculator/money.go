package calculator

import "github.com/shopspring/decimal"

// Epsilon is the tolerance used when comparing amounts. Half a cent: two
// amounts closer than this are the same amount.
var Epsilon = decimal.New(5, -3)

var hundred = decimal.NewFromInt(100)

// IsZero reports whether d is zero within Epsilon.
func IsZero(d decimal.Decimal) bool {
	return d.Abs().LessThan(Epsilon)
}

// isCents reports whether d carries at most two decimal places.
func isCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}
