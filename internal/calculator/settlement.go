package calculator

import "github.com/shopspring/decimal"

// Settlement is a real payment from one user to another.
type Settlement struct {
	From   string // who paid (debtor settling up)
	To     string // who received the payment
	Amount decimal.Decimal
}

// Validate checks the payment before it touches a balance sheet. The amount is
// free-form: it does not need to match, or stay under, an outstanding debt.
func (s Settlement) Validate() error {
	if s.From == "" || s.To == "" {
		return invalid("settle", "payer and payee are required")
	}
	if s.From == s.To {
		return invalid("settle", "payer and payee must be different users")
	}
	if !s.Amount.IsPositive() {
		return invalid("settle", "amount must be positive, got %s", s.Amount)
	}
	if !isCents(s.Amount) {
		return invalid("settle", "amount %s has more than two decimal places", s.Amount)
	}
	return nil
}

// Deltas returns the balance changes for the payment: the payer's balance
// rises by the amount, the payee's falls by it.
func (s Settlement) Deltas() Deltas {
	return Deltas{
		{User: s.From, Amount: s.Amount},
		{User: s.To, Amount: s.Amount.Neg()},
	}
}

// ApplySettlement validates the payment and records it on the sheet. Applying
// the same settlement twice records two payments.
func ApplySettlement(sheet *BalanceSheet, s Settlement) error {
	if err := s.Validate(); err != nil {
		return err
	}
	return sheet.Apply(s.Deltas())
}
