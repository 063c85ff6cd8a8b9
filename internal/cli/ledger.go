package cli

import (
	"fmt"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitsmart/pkg/api"
)

func newBalancesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balances GROUP_ID",
		Short: "Show each member's net balance (positive = is owed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.ledger().GetBalances(cmd.Context(), connect.NewRequest(&api.GetBalancesRequest{GroupID: args[0]}))
			if err != nil {
				return fmt.Errorf("get balances: %w", err)
			}
			printBalances(a, resp.Msg.Balances)
			return nil
		},
	}
}

func newDebtsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "debts GROUP_ID",
		Short: "Suggest payments that settle the group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.ledger().SimplifyDebts(cmd.Context(), connect.NewRequest(&api.SimplifyDebtsRequest{GroupID: args[0]}))
			if err != nil {
				return fmt.Errorf("simplify debts: %w", err)
			}
			if len(resp.Msg.Debts) == 0 {
				fmt.Fprintln(a.out, "All settled up.")
				return nil
			}
			for _, d := range resp.Msg.Debts {
				fmt.Fprintf(a.out, "%s pays %s %s\n", d.From, d.To, d.Amount.StringFixed(2))
			}
			return nil
		},
	}
}

func newSettleCmd(a *app) *cobra.Command {
	var (
		from, to, amount, note string
	)
	cmd := &cobra.Command{
		Use:   "settle GROUP_ID",
		Short: "Record a payment between two members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paid, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}
			resp, err := a.ledger().SettleUp(cmd.Context(), connect.NewRequest(&api.SettleUpRequest{
				GroupID: args[0],
				From:    from,
				To:      to,
				Amount:  paid,
				Note:    note,
			}))
			if err != nil {
				return fmt.Errorf("settle: %w", err)
			}
			s := resp.Msg.Settlement
			fmt.Fprintf(a.out, "Recorded %s paying %s %s\n", s.From, s.To, s.Amount.StringFixed(2))
			printBalances(a, resp.Msg.Balances)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "member who paid")
	cmd.Flags().StringVar(&to, "to", "", "member who received the payment")
	cmd.Flags().StringVar(&amount, "amount", "", "amount paid")
	cmd.Flags().StringVar(&note, "note", "", "optional note")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func printBalances(a *app, balances []api.Balance) {
	w := newTable(a.out)
	fmt.Fprintln(w, "USER\tBALANCE")
	for _, b := range balances {
		fmt.Fprintf(w, "%s\t%s\n", b.User, signed(b.Amount))
	}
	_ = w.Flush()
}
