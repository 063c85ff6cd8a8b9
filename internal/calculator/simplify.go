package calculator

import (
	"container/heap"

	"github.com/shopspring/decimal"
)

// Debt is a suggested payment: From owes To the given amount.
type Debt struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// SimplifyDebts reduces a balance snapshot to a list of pairwise debts.
//
// Algorithm (greedy, not minimum-cardinality):
//   - creditors (balance > 0) and debtors (balance < 0) go into two max-heaps
//     keyed by magnitude; zero balances are dropped
//   - repeatedly match the largest creditor with the largest debtor for
//     min(credit, debt), then push back whichever side has money left
//
// Equal magnitudes are ordered by position in the snapshot, so the output is
// deterministic for a given snapshot. Remainders below Epsilon are treated as
// settled and never emitted.
func SimplifyDebts(snapshot []Balance) []Debt {
	creditors := &partyHeap{}
	debtors := &partyHeap{}
	for i, b := range snapshot {
		switch {
		case IsZero(b.Amount):
		case b.Amount.IsPositive():
			*creditors = append(*creditors, party{user: b.User, amount: b.Amount, pos: i})
		default:
			*debtors = append(*debtors, party{user: b.User, amount: b.Amount.Neg(), pos: i})
		}
	}
	heap.Init(creditors)
	heap.Init(debtors)

	var debts []Debt
	for creditors.Len() > 0 && debtors.Len() > 0 {
		creditor := heap.Pop(creditors).(party)
		debtor := heap.Pop(debtors).(party)

		amount := decimal.Min(creditor.amount, debtor.amount)
		debts = append(debts, Debt{From: debtor.user, To: creditor.user, Amount: amount})

		creditor.amount = creditor.amount.Sub(amount)
		debtor.amount = debtor.amount.Sub(amount)
		if !IsZero(creditor.amount) {
			heap.Push(creditors, creditor)
		}
		if !IsZero(debtor.amount) {
			heap.Push(debtors, debtor)
		}
	}
	return debts
}

type party struct {
	user   string
	amount decimal.Decimal // always positive
	pos    int
}

// partyHeap is a max-heap by amount, earlier snapshot position first on ties.
type partyHeap []party

func (h partyHeap) Len() int { return len(h) }

func (h partyHeap) Less(i, j int) bool {
	if c := h[i].amount.Cmp(h[j].amount); c != 0 {
		return c > 0
	}
	return h[i].pos < h[j].pos
}

func (h partyHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *partyHeap) Push(x any) { *h = append(*h, x.(party)) }

func (h *partyHeap) Pop() any {
	old := *h
	n := len(old)
	p := old[n-1]
	*h = old[:n-1]
	return p
}
