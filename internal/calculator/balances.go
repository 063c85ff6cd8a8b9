package calculator

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Balance is one user's net position.
// Positive = owed money, negative = owes money.
type Balance struct {
	User   string
	Amount decimal.Decimal
}

// BalanceSheet holds the running net balance of every user in a group. It is
// the single source of truth for who owes what in aggregate.
//
// Users are tracked in the order they were first seen; Snapshot returns that
// order, and debt simplification uses it to break ties. All methods are safe
// for concurrent use and every mutation is applied as one step.
type BalanceSheet struct {
	mu       sync.RWMutex
	order    []string
	balances map[string]decimal.Decimal
}

// NewBalanceSheet creates a sheet with a zero balance for each member.
func NewBalanceSheet(members ...string) *BalanceSheet {
	b := &BalanceSheet{balances: make(map[string]decimal.Decimal)}
	b.AddMembers(members...)
	return b
}

// AddMembers creates zero-balance entries for users the sheet has not seen.
// Existing entries are left untouched.
func (b *BalanceSheet) AddMembers(members ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, m := range members {
		b.ensure(m)
	}
}

func (b *BalanceSheet) ensure(user string) {
	if _, ok := b.balances[user]; !ok {
		b.balances[user] = decimal.Zero
		b.order = append(b.order, user)
	}
}

// Apply adds each delta to the matching user's balance, creating entries for
// unseen users. The sheet does not balance the input itself: if the deltas do
// not sum to zero the update is still applied and an *InvariantViolation is
// returned so the fault is surfaced.
func (b *BalanceSheet) Apply(deltas Deltas) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, d := range deltas {
		b.ensure(d.User)
		b.balances[d.User] = b.balances[d.User].Add(d.Amount)
	}
	return b.checkLocked()
}

// ApplyExpense splits the expense and applies the resulting deltas. Nothing is
// applied when the expense fails validation.
func (b *BalanceSheet) ApplyExpense(e Expense) (Deltas, error) {
	deltas, err := CalculateDeltas(e)
	if err != nil {
		return nil, err
	}
	return deltas, b.Apply(deltas)
}

// Balance returns the user's net balance, or zero for an unseen user.
func (b *BalanceSheet) Balance(user string) decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.balances[user]
}

// Snapshot returns a consistent copy of every balance in first-seen order.
func (b *BalanceSheet) Snapshot() []Balance {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Balance, len(b.order))
	for i, u := range b.order {
		out[i] = Balance{User: u, Amount: b.balances[u]}
	}
	return out
}

// Total returns the sum of all balances. It is zero for a healthy sheet.
func (b *BalanceSheet) Total() decimal.Decimal {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.totalLocked()
}

// CheckInvariant returns an *InvariantViolation if the balances do not sum
// to zero.
func (b *BalanceSheet) CheckInvariant() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.checkLocked()
}

func (b *BalanceSheet) totalLocked() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b.balances {
		total = total.Add(v)
	}
	return total
}

func (b *BalanceSheet) checkLocked() error {
	if total := b.totalLocked(); !IsZero(total) {
		return &InvariantViolation{Total: total}
	}
	return nil
}
