// Package cli implements splitctl, a command-line client for the splitsmart
// server.
package cli

import (
	"io"
	"log/slog"
	"net/http"
	"os"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitsmart/pkg/api"
	"github.com/mmynk/splitsmart/pkg/logging"
)

const defaultServer = "http://localhost:8080"

// app holds the state shared by every subcommand.
type app struct {
	server     string
	token      string
	debug      bool
	httpClient connect.HTTPClient
	out        io.Writer
}

func (a *app) ledger() *api.LedgerServiceClient {
	return api.NewLedgerServiceClient(a.httpClient, a.server, api.WithBearerToken(a.token))
}

func (a *app) auth() *api.AuthServiceClient {
	return api.NewAuthServiceClient(a.httpClient, a.server)
}

// NewRootCommand builds the splitctl command tree. Output goes to out; a nil
// httpClient means http.DefaultClient.
func NewRootCommand(out io.Writer, httpClient connect.HTTPClient) *cobra.Command {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	a := &app{httpClient: httpClient, out: out}

	root := &cobra.Command{
		Use:   "splitctl",
		Short: "Track shared expenses on a splitsmart server",
		Long: `splitctl records shared expenses and settlements on a splitsmart
server and shows who owes whom.

Example:
  splitctl login --email alice@example.com --password secret123
  splitctl group create Roommates --member Alice --member Bob
  splitctl expense add <group-id> --amount 60 --payer Alice --participants Alice,Bob
  splitctl debts <group-id>`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if a.debug {
				level = slog.LevelDebug
			}
			logging.SetupWithLevel(level)
			if a.token == "" {
				a.token = os.Getenv("SPLITCTL_TOKEN")
			}
			slog.Debug("Using server", "server", a.server, "authenticated", a.token != "")
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	root.PersistentFlags().StringVar(&a.server, "server", envOr("SPLITCTL_SERVER", defaultServer), "server base URL")
	root.PersistentFlags().StringVar(&a.token, "token", "", "session token (default $SPLITCTL_TOKEN)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newRegisterCmd(a),
		newLoginCmd(a),
		newGroupCmd(a),
		newExpenseCmd(a),
		newBalancesCmd(a),
		newDebtsCmd(a),
		newSettleCmd(a),
	)
	return root
}

// Execute runs splitctl against os.Args.
func Execute() error {
	return NewRootCommand(os.Stdout, nil).Execute()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
