package cli

import (
	"fmt"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitsmart/pkg/api"
)

func newRegisterCmd(a *app) *cobra.Command {
	var req api.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and print a session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.auth().Register(cmd.Context(), connect.NewRequest(&req))
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}
			printToken(a, resp.Msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.DisplayName, "name", "", "display name")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (min 8 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	var req api.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print a session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.auth().Login(cmd.Context(), connect.NewRequest(&req))
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			printToken(a, resp.Msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func printToken(a *app, resp *api.TokenResponse) {
	fmt.Fprintf(a.out, "Logged in as %s (%s), token expires %s\n",
		resp.DisplayName, resp.UserID, resp.ExpiresAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(a.out, "export SPLITCTL_TOKEN=%s\n", resp.Token)
}
