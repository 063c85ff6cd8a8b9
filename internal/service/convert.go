package service

import (
	"errors"
	"fmt"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitsmart/internal/calculator"
	"github.com/mmynk/splitsmart/internal/models"
	"github.com/mmynk/splitsmart/internal/storage"
	"github.com/mmynk/splitsmart/pkg/api"
)

// toConnectError maps ledger and storage errors to Connect codes.
func toConnectError(err error) error {
	var (
		validation *calculator.ValidationError
		connectErr *connect.Error
	)
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.As(err, &validation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// parseKind maps a wire policy name to a SplitKind. An empty name means an
// equal split.
func parseKind(name string) (calculator.SplitKind, error) {
	if name == "" {
		return calculator.SplitEqual, nil
	}
	return calculator.ParseSplitKind(name)
}

// splitValues collects the per-participant inputs, rejecting a participant
// named twice.
func splitValues(portions []api.Portion) (map[string]decimal.Decimal, error) {
	values := make(map[string]decimal.Decimal, len(portions))
	for _, p := range portions {
		if _, dup := values[p.Participant]; dup {
			return nil, &calculator.ValidationError{
				Op:     "split",
				Reason: fmt.Sprintf("value for participant %q given more than once", p.Participant),
			}
		}
		values[p.Participant] = p.Value
	}
	return values, nil
}

// toCalcExpense rebuilds the split input from a stored expense.
func toCalcExpense(e *models.Expense) (calculator.Expense, error) {
	kind, err := parseKind(e.SplitKind)
	if err != nil {
		return calculator.Expense{}, err
	}
	values := make(map[string]decimal.Decimal, len(e.Portions))
	for _, p := range e.Portions {
		values[p.Participant] = p.Value
	}
	return calculator.Expense{
		Amount:       e.Amount,
		Payer:        e.Payer,
		Participants: e.Participants,
		Kind:         kind,
		Values:       values,
	}, nil
}

// portionsFor stores the inputs in participant order. Equal splits carry none.
func portionsFor(e calculator.Expense) []models.Portion {
	if e.Kind == calculator.SplitEqual {
		return nil
	}
	portions := make([]models.Portion, 0, len(e.Participants))
	for _, p := range e.Participants {
		portions = append(portions, models.Portion{Participant: p, Value: e.Values[p]})
	}
	return portions
}

func toAPIGroup(g *models.Group) api.Group {
	return api.Group{
		ID:        g.ID,
		Name:      g.Name,
		Members:   append([]string{}, g.Members...),
		CreatedAt: time.Unix(g.CreatedAt, 0).UTC(),
	}
}

func toAPIExpense(e *models.Expense, shares []calculator.Share) api.Expense {
	portions := make([]api.Portion, len(e.Portions))
	for i, p := range e.Portions {
		portions[i] = api.Portion{Participant: p.Participant, Value: p.Value}
	}
	apiShares := make([]api.Share, len(shares))
	for i, s := range shares {
		apiShares[i] = api.Share{User: s.User, Amount: s.Amount}
	}
	return api.Expense{
		ID:           e.ID,
		GroupID:      e.GroupID,
		Description:  e.Description,
		Amount:       e.Amount,
		Payer:        e.Payer,
		Participants: append([]string{}, e.Participants...),
		Split:        api.Split{Kind: e.SplitKind, Portions: portions},
		Shares:       apiShares,
		CreatedAt:    time.Unix(0, e.CreatedAt).UTC(),
		CreatedBy:    e.CreatedBy,
	}
}

func toAPISettlement(s *models.Settlement) api.Settlement {
	return api.Settlement{
		ID:        s.ID,
		GroupID:   s.GroupID,
		From:      s.FromUser,
		To:        s.ToUser,
		Amount:    s.Amount,
		Note:      s.Note,
		CreatedAt: time.Unix(0, s.CreatedAt).UTC(),
		CreatedBy: s.CreatedBy,
	}
}

func toAPIBalances(balances []calculator.Balance) []api.Balance {
	out := make([]api.Balance, len(balances))
	for i, b := range balances {
		out[i] = api.Balance{User: b.User, Amount: b.Amount}
	}
	return out
}

func deltasToAPI(deltas calculator.Deltas) []api.Balance {
	out := make([]api.Balance, len(deltas))
	for i, d := range deltas {
		out[i] = api.Balance{User: d.User, Amount: d.Amount}
	}
	return out
}

func toAPIDebts(debts []calculator.Debt) []api.Debt {
	out := make([]api.Debt, len(debts))
	for i, d := range debts {
		out[i] = api.Debt{From: d.From, To: d.To, Amount: d.Amount}
	}
	return out
}
