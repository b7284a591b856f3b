package cli

import (
	"github.com/spf13/cobra"

	"reconcile.dev/reconcile/internal/actions"
	"reconcile.dev/reconcile/internal/cli/common"
	"reconcile.dev/reconcile/internal/runtime"
)

// newBranchCmd creates the branch command group
func newBranchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch",
		Short: "List, create, switch, delete and rename local branches",
	}

	cmd.AddCommand(
		newBranchListCmd(),
		newBranchCreateCmd(),
		newBranchSwitchCmd(),
		newBranchDeleteCmd(),
		newBranchRenameCmd(),
	)

	return cmd
}

func newBranchListCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List local branches",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.BranchListAction(ctx, actions.BranchListOptions{JSON: jsonOut})
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the branches as JSON")
	return cmd
}

func newBranchCreateCmd() *cobra.Command {
	var checkout bool

	cmd := &cobra.Command{
		Use:   "create <name> [base]",
		Short: "Create a branch at base, or at HEAD",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := ""
			if len(args) > 1 {
				base = args[1]
			}
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.BranchCreateAction(ctx, args[0], base, checkout)
			})
		},
	}
	cmd.Flags().BoolVarP(&checkout, "checkout", "c", false, "Switch to the new branch")
	return cmd
}

func newBranchSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "switch <name>",
		Short:             "Check out a local branch",
		Aliases:           []string{"checkout", "co"},
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.BranchSwitchAction(ctx, args[0])
			})
		},
	}
}

func newBranchDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "delete <name>",
		Short:             "Delete a local branch",
		Aliases:           []string{"rm"},
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.BranchDeleteAction(ctx, args[0])
			})
		},
	}
}

func newBranchRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "rename <old> <new>",
		Short:             "Rename a local branch",
		Aliases:           []string{"mv"},
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: common.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.BranchRenameAction(ctx, args[0], args[1])
			})
		},
	}
}
