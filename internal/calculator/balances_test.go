package calculator

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceSheet_Conservation(t *testing.T) {
	sheet := NewBalanceSheet("Alice", "Bob", "Charlie")

	expenses := []Expense{
		{Amount: d("10.00"), Payer: "Alice", Participants: []string{"Alice", "Bob", "Charlie"}, Kind: SplitEqual},
		{Amount: d("45.50"), Payer: "Bob", Participants: []string{"Alice", "Charlie"}, Kind: SplitUnequal, Values: values("Alice", "20.25", "Charlie", "25.25")},
		{Amount: d("60"), Payer: "Charlie", Participants: []string{"Alice", "Bob", "Charlie", "Diana"}, Kind: SplitPercent, Values: values("Alice", "10", "Bob", "20", "Charlie", "30", "Diana", "40")},
		{Amount: d("33"), Payer: "Diana", Participants: []string{"Alice", "Bob"}, Kind: SplitShares, Values: values("Alice", "2", "Bob", "1")},
	}
	for _, e := range expenses {
		_, err := sheet.ApplyExpense(e)
		require.NoError(t, err)
		assert.True(t, sheet.Total().IsZero(), "total after %s expense = %s", e.Kind, sheet.Total())
	}

	require.NoError(t, ApplySettlement(sheet, Settlement{From: "Alice", To: "Bob", Amount: d("12.34")}))
	assert.True(t, sheet.Total().IsZero())
	assert.NoError(t, sheet.CheckInvariant())
}

func TestBalanceSheet_Balance(t *testing.T) {
	sheet := NewBalanceSheet()
	assert.True(t, sheet.Balance("nobody").IsZero(), "unseen user has zero balance")

	_, err := sheet.ApplyExpense(Expense{
		Amount:       d("10.00"),
		Payer:        "Alice",
		Participants: []string{"Alice", "Bob", "Charlie"},
		Kind:         SplitEqual,
	})
	require.NoError(t, err)

	assert.Equal(t, "6.66", sheet.Balance("Alice").StringFixed(2))
	assert.Equal(t, "-3.33", sheet.Balance("Bob").StringFixed(2))
	assert.Equal(t, "-3.33", sheet.Balance("Charlie").StringFixed(2))
}

func TestBalanceSheet_SnapshotOrder(t *testing.T) {
	sheet := NewBalanceSheet("Charlie", "Alice")
	sheet.AddMembers("Alice", "Bob")

	require.NoError(t, sheet.Apply(Deltas{
		{User: "Diana", Amount: d("5")},
		{User: "Alice", Amount: d("-5")},
	}))

	snap := sheet.Snapshot()
	users := make([]string, len(snap))
	for i, b := range snap {
		users[i] = b.User
	}
	assert.Equal(t, []string{"Charlie", "Alice", "Bob", "Diana"}, users)
	assert.Equal(t, "-5.00", snap[1].Amount.StringFixed(2))
	assert.Equal(t, "5.00", snap[3].Amount.StringFixed(2))
}

func TestBalanceSheet_InvalidExpenseLeavesSheetUntouched(t *testing.T) {
	sheet := NewBalanceSheet("Alice", "Bob")
	_, err := sheet.ApplyExpense(Expense{
		Amount:       d("100"),
		Payer:        "Alice",
		Participants: []string{"Alice", "Bob"},
		Kind:         SplitPercent,
		Values:       values("Alice", "50", "Bob", "40"),
	})
	require.Error(t, err)

	for _, b := range sheet.Snapshot() {
		assert.True(t, b.Amount.IsZero(), "%s balance changed to %s", b.User, b.Amount)
	}
}

func TestBalanceSheet_UnbalancedDeltasReportViolation(t *testing.T) {
	sheet := NewBalanceSheet("Alice")
	err := sheet.Apply(Deltas{{User: "Alice", Amount: d("1.00")}})

	var violation *InvariantViolation
	require.True(t, errors.As(err, &violation), "expected *InvariantViolation, got %v", err)
	assert.Equal(t, "1.00", violation.Total.StringFixed(2))
	assert.Error(t, sheet.CheckInvariant())
}

func TestBalanceSheet_ConcurrentUpdates(t *testing.T) {
	sheet := NewBalanceSheet("Alice", "Bob", "Charlie")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := sheet.ApplyExpense(Expense{
				Amount:       d("3.00"),
				Payer:        "Alice",
				Participants: []string{"Alice", "Bob", "Charlie"},
				Kind:         SplitEqual,
			})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, ApplySettlement(sheet, Settlement{From: "Bob", To: "Alice", Amount: d("1.00")}))
			_ = sheet.Snapshot()
		}()
	}
	wg.Wait()

	assert.True(t, sheet.Total().IsZero())
	assert.Equal(t, "50.00", sheet.Balance("Alice").StringFixed(2))
	assert.Equal(t, "0.00", sheet.Balance("Bob").StringFixed(2))
	assert.Equal(t, "-50.00", sheet.Balance("Charlie").StringFixed(2))
}
