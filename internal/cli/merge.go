package cli

import (
	"github.com/spf13/cobra"

	"reconcile.dev/reconcile/internal/actions"
	"reconcile.dev/reconcile/internal/cli/common"
	"reconcile.dev/reconcile/internal/runtime"
)

// newMergeCmd creates the merge command
func newMergeCmd() *cobra.Command {
	var opts actions.MergeOptions

	cmd := &cobra.Command{
		Use:   "merge <ref>",
		Short: "Merge a branch, remote-tracking branch or commit into HEAD",
		Long: `Merges <ref> into the current branch.

Fast-forwards when possible, otherwise records a merge commit. If both sides
changed the same lines the merge stops with conflict markers in the working
tree; use "reconcile conflicts" to finish or abort it.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.CompleteBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Target = args[0]
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.MergeAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVar(&opts.FastForwardOnly, "ff-only", false, "Refuse to merge unless HEAD can be fast-forwarded")
	cmd.Flags().BoolVar(&opts.NoFastForward, "no-ff", false, "Create a merge commit even when a fast-forward is possible")
	cmd.Flags().StringVarP(&opts.Message, "message", "m", "", "Merge commit message")

	return cmd
}

// newPullCmd creates the pull command
func newPullCmd() *cobra.Command {
	var rebase bool

	cmd := &cobra.Command{
		Use:   "pull [remote] [branch]",
		Short: "Fetch the upstream branch and merge it into HEAD",
		Long: `Fetches <remote>/<branch> and merges it into the current branch. Both default to
the current branch's configured upstream.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := actions.PullOptions{Rebase: rebase}
			if len(args) > 0 {
				opts.Remote = args[0]
			}
			if len(args) > 1 {
				opts.Branch = args[1]
			}
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.PullAction(ctx, opts)
			})
		},
	}

	cmd.Flags().BoolVar(&rebase, "rebase", false, "Rebase instead of merging (not supported)")

	return cmd
}
