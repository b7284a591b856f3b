package cli

import (
	"github.com/spf13/cobra"

	"reconcile.dev/reconcile/internal/actions"
	"reconcile.dev/reconcile/internal/cli/common"
	"reconcile.dev/reconcile/internal/runtime"
)

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show staged, unstaged, untracked and conflicted paths",
		Aliases: []string{"st"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.StatusAction(ctx, actions.StatusOptions{JSON: jsonOut})
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the status as JSON")
	return cmd
}

// newBranchInfoCmd creates the branch-info command
func newBranchInfoCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "branch-info",
		Short: "Show the current branch, its upstream and how far they have diverged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.BranchInfoAction(ctx, actions.BranchInfoOptions{JSON: jsonOut})
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the branch info as JSON")
	return cmd
}

// newAheadBehindCmd creates the ahead-behind command
func newAheadBehindCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "ahead-behind <branch>",
		Short:             "Print commits ahead of and behind a branch's upstream",
		Long:              `Prints "<ahead> <behind>". A branch without an upstream prints "0 0".`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.AheadBehindAction(ctx, args[0])
			})
		},
	}
}

// newSummaryCmd creates the summary command
func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print a plain-text summary of the branch and pending changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, actions.SummaryAction)
		},
	}
}
