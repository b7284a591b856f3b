package cli

import (
	"github.com/spf13/cobra"

	"reconcile.dev/reconcile/internal/actions"
	"reconcile.dev/reconcile/internal/cli/common"
	"reconcile.dev/reconcile/internal/runtime"
)

// newConflictsCmd creates the conflicts command group
func newConflictsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "List, resolve, complete or abort an in-progress merge",
	}

	cmd.AddCommand(
		newConflictsListCmd(),
		newConflictsShowCmd(),
		newConflictsResolveCmd(),
		newConflictsAbortCmd(),
		newConflictsCompleteCmd(),
	)

	return cmd
}

func newConflictsListCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List conflicted paths",
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ConflictsListAction(ctx, actions.ConflictsListOptions{JSON: jsonOut})
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the merge state as JSON")
	return cmd
}

func newConflictsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "show <path>",
		Short:             "Show how our and their versions of a conflicted path differ",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.CompleteConflicts,
		RunE: func(cmd *cobra.Command, args []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ConflictsShowAction(ctx, args[0])
			})
		},
	}
}

func newConflictsResolveCmd() *cobra.Command {
	var edit bool

	cmd := &cobra.Command{
		Use:   "resolve <path> [ours|theirs|manual]",
		Short: "Resolve a conflicted path",
		Long: `Resolves one conflicted path.

  ours     keep the current branch's version
  theirs   take the incoming version
  manual   stage the working tree file as it is (use --edit to open it first)

Without a strategy you are asked to pick one.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: common.CompleteConflicts,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := actions.ConflictsResolveOptions{Path: args[0], Edit: edit}
			if len(args) > 1 {
				opts.Strategy = args[1]
			}
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ConflictsResolveAction(ctx, opts)
			})
		},
	}
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "Open the file in your editor before a manual resolution")
	return cmd
}

func newConflictsAbortCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "abort",
		Short: "Abort the merge and restore HEAD",
		Long: `Aborts the in-progress merge. The index and working tree are reset to HEAD and
the recorded merge target is discarded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ConflictsAbortAction(ctx, actions.ConflictsAbortOptions{Force: force})
			})
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Do not prompt for confirmation; abort immediately.")
	return cmd
}

func newConflictsCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete [message]",
		Short: "Record the merge commit once every conflict is resolved",
		Long: `Records the merge commit with HEAD and the merge target as parents. The message
defaults to the one prepared when the merge stopped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts actions.ConflictsCompleteOptions
			if len(args) == 1 {
				opts.Message = &args[0]
			}
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ConflictsCompleteAction(ctx, opts)
			})
		},
	}
}
