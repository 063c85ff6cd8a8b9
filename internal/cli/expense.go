package cli

import (
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitsmart/pkg/api"
)

func newExpenseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record and list expenses",
	}
	cmd.AddCommand(newExpenseAddCmd(a), newExpenseListCmd(a))
	return cmd
}

func newExpenseAddCmd(a *app) *cobra.Command {
	var (
		description  string
		amount       string
		payer        string
		participants []string
		kind         string
		rawPortions  []string
	)
	cmd := &cobra.Command{
		Use:   "add GROUP_ID",
		Short: "Record an expense",
		Long: `Record an expense paid by one member and split among participants.

Split policies:
  equal    divide evenly (default)
  unequal  --portion NAME=AMOUNT for every participant
  percent  --portion NAME=PERCENT for every participant, summing to 100
  shares   --portion NAME=COUNT for every participant

Example:
  splitctl expense add <group-id> --amount 90 --payer Alice \
    --participants Alice,Bob,Charlie --split shares \
    --portion Alice=2 --portion Bob=1 --portion Charlie=1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			total, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}
			portions, err := parsePortions(rawPortions)
			if err != nil {
				return err
			}

			resp, err := a.ledger().AddExpense(cmd.Context(), connect.NewRequest(&api.AddExpenseRequest{
				GroupID:      args[0],
				Description:  description,
				Amount:       total,
				Payer:        payer,
				Participants: participants,
				Split:        api.Split{Kind: kind, Portions: portions},
			}))
			if err != nil {
				return fmt.Errorf("add expense: %w", err)
			}

			e := resp.Msg.Expense
			fmt.Fprintf(a.out, "Recorded %s (%s split, %s paid by %s)\n",
				e.ID, e.Split.Kind, e.Amount.StringFixed(2), e.Payer)
			w := newTable(a.out)
			fmt.Fprintln(w, "USER\tSHARE\tBALANCE CHANGE")
			deltas := make(map[string]decimal.Decimal, len(resp.Msg.Deltas))
			for _, d := range resp.Msg.Deltas {
				deltas[d.User] = d.Amount
			}
			for _, s := range e.Shares {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.User, s.Amount.StringFixed(2), signed(deltas[s.User]))
			}
			if _, ok := deltas[e.Payer]; ok && !containsUser(e.Shares, e.Payer) {
				fmt.Fprintf(w, "%s\t-\t%s\n", e.Payer, signed(deltas[e.Payer]))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "what the expense was for")
	cmd.Flags().StringVar(&amount, "amount", "", "total paid, e.g. 42.50")
	cmd.Flags().StringVar(&payer, "payer", "", "member who paid")
	cmd.Flags().StringSliceVar(&participants, "participants", nil, "comma-separated members sharing the cost")
	cmd.Flags().StringVar(&kind, "split", "equal", "split policy: equal, unequal, percent or shares")
	cmd.Flags().StringArrayVar(&rawPortions, "portion", nil, "NAME=VALUE policy input (repeatable)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("payer")
	_ = cmd.MarkFlagRequired("participants")
	return cmd
}

func newExpenseListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list GROUP_ID",
		Short: "List a group's expenses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.ledger().ListExpenses(cmd.Context(), connect.NewRequest(&api.ListExpensesRequest{GroupID: args[0]}))
			if err != nil {
				return fmt.Errorf("list expenses: %w", err)
			}
			w := newTable(a.out)
			fmt.Fprintln(w, "DATE\tDESCRIPTION\tAMOUNT\tPAYER\tSPLIT\tPARTICIPANTS")
			for _, e := range resp.Msg.Expenses {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					e.CreatedAt.Local().Format("2006-01-02"), e.Description, e.Amount.StringFixed(2),
					e.Payer, e.Split.Kind, strings.Join(e.Participants, ","))
			}
			return w.Flush()
		},
	}
}

// parsePortions turns NAME=VALUE flags into split inputs, keeping flag order.
func parsePortions(raw []string) ([]api.Portion, error) {
	portions := make([]api.Portion, 0, len(raw))
	for _, r := range raw {
		name, value, ok := strings.Cut(r, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid portion %q: want NAME=VALUE", r)
		}
		v, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid portion %q: %w", r, err)
		}
		portions = append(portions, api.Portion{Participant: name, Value: v})
	}
	return portions, nil
}

func containsUser(shares []api.Share, user string) bool {
	for _, s := range shares {
		if s.User == user {
			return true
		}
	}
	return false
}
