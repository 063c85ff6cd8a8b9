package cli

import (
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/splitsmart/pkg/api"
)

func newGroupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage groups",
	}
	cmd.AddCommand(
		newGroupCreateCmd(a),
		newGroupShowCmd(a),
		newGroupListCmd(a),
		newGroupAddMembersCmd(a),
	)
	return cmd
}

func newGroupCreateCmd(a *app) *cobra.Command {
	var members []string
	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.ledger().CreateGroup(cmd.Context(), connect.NewRequest(&api.CreateGroupRequest{
				Name:    args[0],
				Members: members,
			}))
			if err != nil {
				return fmt.Errorf("create group: %w", err)
			}
			printGroup(a, resp.Msg.Group)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&members, "member", "m", nil, "member name (repeatable)")
	return cmd
}

func newGroupShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show GROUP_ID",
		Short: "Show a group and its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.ledger().GetGroup(cmd.Context(), connect.NewRequest(&api.GetGroupRequest{GroupID: args[0]}))
			if err != nil {
				return fmt.Errorf("get group: %w", err)
			}
			printGroup(a, resp.Msg.Group)
			return nil
		},
	}
}

func newGroupListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.ledger().ListGroups(cmd.Context(), connect.NewRequest(&api.ListGroupsRequest{}))
			if err != nil {
				return fmt.Errorf("list groups: %w", err)
			}
			w := newTable(a.out)
			fmt.Fprintln(w, "ID\tNAME\tMEMBERS")
			for _, g := range resp.Msg.Groups {
				fmt.Fprintf(w, "%s\t%s\t%d\n", g.ID, g.Name, len(g.Members))
			}
			return w.Flush()
		},
	}
}

func newGroupAddMembersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add-members GROUP_ID NAME...",
		Short: "Add members to a group",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.ledger().AddMembers(cmd.Context(), connect.NewRequest(&api.AddMembersRequest{
				GroupID: args[0],
				Members: args[1:],
			}))
			if err != nil {
				return fmt.Errorf("add members: %w", err)
			}
			printGroup(a, resp.Msg.Group)
			return nil
		},
	}
}

func printGroup(a *app, g api.Group) {
	fmt.Fprintf(a.out, "%s  %s\n", g.ID, g.Name)
	fmt.Fprintf(a.out, "members: %s\n", strings.Join(g.Members, ", "))
}
