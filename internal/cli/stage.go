package cli

import (
	"github.com/spf13/cobra"

	"reconcile.dev/reconcile/internal/actions"
	"reconcile.dev/reconcile/internal/cli/common"
	"reconcile.dev/reconcile/internal/runtime"
)

// newAddCmd creates the add command
func newAddCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "add <paths...>",
		Short: "Stage paths for the next commit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.AddAction(ctx, actions.AddOptions{Paths: args, All: all})
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "A", false, "Stage every change, including untracked files and deletions")
	return cmd
}

// newResetCmd creates the reset command
func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset [paths...]",
		Short: "Unstage paths, or everything when none are given",
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ResetAction(ctx, args)
			})
		},
	}
}
