package cli

import (
	"github.com/spf13/cobra"

	"reconcile.dev/reconcile/internal/actions"
	"reconcile.dev/reconcile/internal/cli/common"
	"reconcile.dev/reconcile/internal/runtime"
)

// newLogCmd creates the log command
func newLogCmd() *cobra.Command {
	var opts actions.LogOptions

	cmd := &cobra.Command{
		Use:     "log",
		Short:   "Show commits reachable from HEAD, newest first",
		Aliases: []string{"l"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.LogAction(ctx, opts)
			})
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "max-count", "n", 20, "Number of commits to show (0 for all)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the commits as JSON")

	return cmd
}

// newDiffCmd creates the diff command
func newDiffCmd() *cobra.Command {
	var staged bool

	cmd := &cobra.Command{
		Use:   "diff <path>",
		Short: "Show staged and unstaged changes to a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.DiffAction(ctx, actions.DiffOptions{Path: args[0], Staged: staged})
			})
		},
	}
	cmd.Flags().BoolVar(&staged, "staged", false, "Only show changes staged for commit")
	return cmd
}
