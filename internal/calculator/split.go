package calculator

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SplitKind selects how an expense is divided among its participants.
type SplitKind int

const (
	SplitEqual SplitKind = iota
	SplitUnequal
	SplitPercent
	SplitShares
)

var splitKindNames = [...]string{"equal", "unequal", "percent", "shares"}

func (k SplitKind) String() string {
	if k < 0 || int(k) >= len(splitKindNames) {
		return fmt.Sprintf("SplitKind(%d)", int(k))
	}
	return splitKindNames[k]
}

// ParseSplitKind maps a policy name ("equal", "unequal", "percent", "shares")
// to its SplitKind. Matching is case-insensitive.
func ParseSplitKind(s string) (SplitKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range splitKindNames {
		if n == name {
			return SplitKind(i), nil
		}
	}
	return 0, invalid("split", "unknown split policy %q", s)
}

// Expense is the minimal information needed to split one payment.
type Expense struct {
	Amount       decimal.Decimal
	Payer        string
	Participants []string
	Kind         SplitKind

	// Values holds the per-participant inputs: explicit amounts for
	// SplitUnequal, percentages for SplitPercent and integer share counts for
	// SplitShares. It is ignored for SplitEqual.
	Values map[string]decimal.Decimal
}

// Share is the amount one participant owes for an expense.
type Share struct {
	User   string
	Amount decimal.Decimal
}

// Delta is a signed change to one user's net balance.
type Delta struct {
	User   string
	Amount decimal.Decimal
}

// Deltas is an ordered set of balance changes produced by one ledger event.
type Deltas []Delta

// Sum returns the total of all deltas. A balanced update sums to zero.
func (d Deltas) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, delta := range d {
		total = total.Add(delta.Amount)
	}
	return total
}

// Get returns the delta for user, or zero if the user is not affected.
func (d Deltas) Get(user string) decimal.Decimal {
	for _, delta := range d {
		if delta.User == user {
			return delta.Amount
		}
	}
	return decimal.Zero
}

// CalculateShares divides the expense amount among its participants using the
// expense's split policy. Shares are rounded to cents; any rounding remainder
// goes to the payer's share, or to the first participant when the payer did
// not take part. The shares always sum to the expense amount exactly.
func CalculateShares(e Expense) ([]Share, error) {
	if err := validateExpense(e); err != nil {
		return nil, err
	}

	var (
		shares []Share
		err    error
	)
	switch e.Kind {
	case SplitEqual:
		shares = equalShares(e)
	case SplitUnequal:
		shares, err = unequalShares(e)
	case SplitPercent:
		shares, err = percentShares(e)
	case SplitShares:
		shares, err = weightedShares(e)
	default:
		err = invalid("split", "unknown split policy %s", e.Kind)
	}
	if err != nil {
		return nil, err
	}

	closeRemainder(shares, e.Amount, e.Payer)
	return shares, nil
}

// CalculateDeltas converts an expense into balance deltas. The payer advanced
// the full amount, so their delta is the amount minus their own share; every
// other participant's delta is minus their share. The payer comes first,
// followed by the remaining participants in the order given.
func CalculateDeltas(e Expense) (Deltas, error) {
	shares, err := CalculateShares(e)
	if err != nil {
		return nil, err
	}

	deltas := make(Deltas, 0, len(shares)+1)
	payerDelta := e.Amount
	for _, s := range shares {
		if s.User == e.Payer {
			payerDelta = payerDelta.Sub(s.Amount)
		}
	}
	deltas = append(deltas, Delta{User: e.Payer, Amount: payerDelta})
	for _, s := range shares {
		if s.User == e.Payer {
			continue
		}
		deltas = append(deltas, Delta{User: s.User, Amount: s.Amount.Neg()})
	}
	return deltas, nil
}

func validateExpense(e Expense) error {
	if !e.Amount.IsPositive() {
		return invalid("split", "amount must be positive, got %s", e.Amount)
	}
	if !isCents(e.Amount) {
		return invalid("split", "amount %s has more than two decimal places", e.Amount)
	}
	if e.Payer == "" {
		return invalid("split", "payer is required")
	}
	if len(e.Participants) == 0 {
		return invalid("split", "must have at least one participant")
	}

	seen := make(map[string]bool, len(e.Participants))
	for _, p := range e.Participants {
		if p == "" {
			return invalid("split", "participant name cannot be empty")
		}
		if seen[p] {
			return invalid("split", "participant %q listed more than once", p)
		}
		seen[p] = true
	}

	if e.Kind == SplitEqual {
		return nil
	}
	for _, p := range e.Participants {
		if _, ok := e.Values[p]; !ok {
			return invalid("split", "missing %s value for participant %q", e.Kind, p)
		}
	}
	for user := range e.Values {
		if !seen[user] {
			return invalid("split", "%s value given for non-participant %q", e.Kind, user)
		}
	}
	return nil
}

func equalShares(e Expense) []Share {
	share := e.Amount.DivRound(decimal.NewFromInt(int64(len(e.Participants))), 2)
	shares := make([]Share, len(e.Participants))
	for i, p := range e.Participants {
		shares[i] = Share{User: p, Amount: share}
	}
	return shares
}

func unequalShares(e Expense) ([]Share, error) {
	shares := make([]Share, len(e.Participants))
	total := decimal.Zero
	for i, p := range e.Participants {
		v := e.Values[p]
		if v.IsNegative() {
			return nil, invalid("split", "amount for %q cannot be negative", p)
		}
		if !isCents(v) {
			return nil, invalid("split", "amount %s for %q has more than two decimal places", v, p)
		}
		shares[i] = Share{User: p, Amount: v}
		total = total.Add(v)
	}
	if !IsZero(total.Sub(e.Amount)) {
		return nil, invalid("split", "amounts sum to %s, expected %s", total.StringFixed(2), e.Amount.StringFixed(2))
	}
	return shares, nil
}

func percentShares(e Expense) ([]Share, error) {
	shares := make([]Share, len(e.Participants))
	total := decimal.Zero
	for i, p := range e.Participants {
		pct := e.Values[p]
		if pct.IsNegative() {
			return nil, invalid("split", "percentage for %q cannot be negative", p)
		}
		shares[i] = Share{User: p, Amount: e.Amount.Mul(pct).DivRound(hundred, 2)}
		total = total.Add(pct)
	}
	if !IsZero(total.Sub(hundred)) {
		return nil, invalid("split", "percentages sum to %s, expected 100", total)
	}
	return shares, nil
}

func weightedShares(e Expense) ([]Share, error) {
	total := decimal.Zero
	for _, p := range e.Participants {
		count := e.Values[p]
		if !count.IsInteger() {
			return nil, invalid("split", "share count for %q must be a whole number, got %s", p, count)
		}
		if count.IsNegative() {
			return nil, invalid("split", "share count for %q cannot be negative", p)
		}
		total = total.Add(count)
	}
	if total.IsZero() {
		return nil, invalid("split", "total shares cannot be zero")
	}

	shares := make([]Share, len(e.Participants))
	for i, p := range e.Participants {
		shares[i] = Share{User: p, Amount: e.Amount.Mul(e.Values[p]).DivRound(total, 2)}
	}
	return shares, nil
}

// closeRemainder adds amount - sum(shares) to the payer's share, or to the
// first share when the payer is not a participant.
func closeRemainder(shares []Share, amount decimal.Decimal, payer string) {
	assigned := decimal.Zero
	for _, s := range shares {
		assigned = assigned.Add(s.Amount)
	}
	diff := amount.Sub(assigned)
	if diff.IsZero() {
		return
	}

	idx := 0
	for i, s := range shares {
		if s.User == payer {
			idx = i
			break
		}
	}
	shares[idx].Amount = shares[idx].Amount.Add(diff)
}
