package calculator

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotOf(kv ...string) []Balance {
	var out []Balance
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, Balance{User: kv[i], Amount: d(kv[i+1])})
	}
	return out
}

func debtStrings(debts []Debt) []string {
	out := make([]string, len(debts))
	for i, debt := range debts {
		out[i] = fmt.Sprintf("%s->%s %s", debt.From, debt.To, debt.Amount.StringFixed(2))
	}
	return out
}

// settleAll applies every debt as a real payment on a sheet built from snapshot.
func settleAll(t *testing.T, snapshot []Balance, debts []Debt) *BalanceSheet {
	t.Helper()
	sheet := NewBalanceSheet()
	deltas := make(Deltas, len(snapshot))
	for i, b := range snapshot {
		deltas[i] = Delta{User: b.User, Amount: b.Amount}
	}
	require.NoError(t, sheet.Apply(deltas))

	for _, debt := range debts {
		require.NoError(t, ApplySettlement(sheet, Settlement{From: debt.From, To: debt.To, Amount: debt.Amount}))
	}
	return sheet
}

func TestSimplifyDebts(t *testing.T) {
	tests := []struct {
		name     string
		snapshot []Balance
		want     []string
	}{
		{
			name:     "all balances zero",
			snapshot: snapshotOf("A", "0", "B", "0"),
			want:     []string{},
		},
		{
			name:     "empty snapshot",
			snapshot: nil,
			want:     []string{},
		},
		{
			name:     "one debtor one creditor",
			snapshot: snapshotOf("A", "-12.50", "B", "12.50"),
			want:     []string{"A->B 12.50"},
		},
		{
			name:     "greedy matches largest first",
			snapshot: snapshotOf("A", "30", "B", "10", "C", "-25", "D", "-15"),
			want:     []string{"C->A 25.00", "D->B 10.00", "D->A 5.00"},
		},
		{
			name:     "ties broken by snapshot order",
			snapshot: snapshotOf("A", "10", "B", "10", "C", "-10", "D", "-10"),
			want:     []string{"C->A 10.00", "D->B 10.00"},
		},
		{
			name:     "ties broken by snapshot order regardless of sign grouping",
			snapshot: snapshotOf("D", "-10", "B", "10", "C", "-10", "A", "10"),
			want:     []string{"D->B 10.00", "C->A 10.00"},
		},
		{
			name:     "one creditor many debtors",
			snapshot: snapshotOf("A", "-5", "B", "-10", "C", "15"),
			want:     []string{"B->C 10.00", "A->C 5.00"},
		},
		{
			name:     "sub-epsilon residue is not a debt",
			snapshot: snapshotOf("A", "0.004", "B", "-0.004"),
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debts := SimplifyDebts(tt.snapshot)
			assert.Equal(t, tt.want, debtStrings(debts))
		})
	}
}

func TestSimplifyDebts_GreedyTotals(t *testing.T) {
	snapshot := snapshotOf("A", "30", "B", "10", "C", "-25", "D", "-15")
	debts := SimplifyDebts(snapshot)

	total := decimal.Zero
	for _, debt := range debts {
		assert.True(t, debt.Amount.IsPositive())
		total = total.Add(debt.Amount)
	}
	assert.Equal(t, "40.00", total.StringFixed(2))

	sheet := settleAll(t, snapshot, debts)
	for _, b := range sheet.Snapshot() {
		assert.True(t, b.Amount.IsZero(), "%s left with %s", b.User, b.Amount)
	}
}

func TestSimplifyDebts_Deterministic(t *testing.T) {
	snapshot := snapshotOf("A", "20", "B", "20", "C", "20", "D", "-20", "E", "-20", "F", "-20")
	first := debtStrings(SimplifyDebts(snapshot))
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, debtStrings(SimplifyDebts(snapshot)))
	}
}

func TestSimplifyDebts_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	users := []string{"Ana", "Ben", "Cleo", "Dev", "Eli", "Fay", "Gus"}
	kinds := []SplitKind{SplitEqual, SplitUnequal, SplitPercent, SplitShares}

	for round := 0; round < 100; round++ {
		sheet := NewBalanceSheet(users...)
		for i := 0; i < 1+rng.IntN(8); i++ {
			e := randomExpense(rng, users, kinds[rng.IntN(len(kinds))])
			_, err := sheet.ApplyExpense(e)
			require.NoError(t, err, "round %d expense %d (%s)", round, i, e.Kind)
		}

		snapshot := sheet.Snapshot()
		debts := SimplifyDebts(snapshot)

		nonZero := 0
		for _, b := range snapshot {
			if !IsZero(b.Amount) {
				nonZero++
			}
		}
		if nonZero > 0 {
			assert.LessOrEqual(t, len(debts), nonZero-1, "round %d", round)
		}

		settled := settleAll(t, snapshot, debts)
		for _, b := range settled.Snapshot() {
			assert.True(t, b.Amount.IsZero(), "round %d: %s left with %s", round, b.User, b.Amount)
		}
	}
}

func randomExpense(rng *rand.Rand, users []string, kind SplitKind) Expense {
	perm := rng.Perm(len(users))
	n := 1 + rng.IntN(len(users))
	participants := make([]string, n)
	for i := range participants {
		participants[i] = users[perm[i]]
	}

	cents := int64(1 + rng.IntN(50000))
	e := Expense{
		Amount:       decimal.New(cents, -2),
		Payer:        users[rng.IntN(len(users))],
		Participants: participants,
		Kind:         kind,
		Values:       make(map[string]decimal.Decimal, n),
	}

	switch kind {
	case SplitUnequal:
		remaining := cents
		for i, p := range participants {
			part := remaining
			if i < n-1 {
				part = rng.Int64N(remaining + 1)
			}
			e.Values[p] = decimal.New(part, -2)
			remaining -= part
		}
	case SplitPercent:
		remaining := int64(100)
		for i, p := range participants {
			part := remaining
			if i < n-1 {
				part = rng.Int64N(remaining + 1)
			}
			e.Values[p] = decimal.NewFromInt(part)
			remaining -= part
		}
	case SplitShares:
		for _, p := range participants {
			e.Values[p] = decimal.NewFromInt(int64(1 + rng.IntN(5)))
		}
	}
	return e
}
