package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"reconcile.dev/reconcile/internal/actions"
	"reconcile.dev/reconcile/internal/cli/common"
	"reconcile.dev/reconcile/internal/config"
	"reconcile.dev/reconcile/internal/errors"
	"reconcile.dev/reconcile/internal/runtime"
	"reconcile.dev/reconcile/internal/tui"
)

// newCommitCmd creates the commit command
func newCommitCmd() *cobra.Command {
	var (
		message string
		all     bool
	)

	cmd := &cobra.Command{
		Use:   "commit [message]",
		Short: "Record the staged changes as a new commit",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := actions.CommitOptions{Message: message, All: all}
			if opts.Message == "" && len(args) > 0 {
				opts.Message = strings.Join(args, " ")
			}
			return common.Run(cmd, func(ctx *runtime.Context) error {
				return actions.CommitAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Stage every change before committing")

	return cmd
}

// newRevokeLastCmd creates the revoke-last command
func newRevokeLastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke-last",
		Short: "Undo the last commit, keeping its changes staged",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.Run(cmd, actions.RevokeLastAction)
		},
	}
}

// newBatchCommitCmd creates the batch-commit command
func newBatchCommitCmd() *cobra.Command {
	var (
		message     string
		all         bool
		concurrency int
		jsonOut     bool
	)

	cmd := &cobra.Command{
		Use:   "batch-commit <paths...> <message>",
		Short: "Commit the same message in several repositories in parallel",
		Long: `Commits in every listed repository independently. A failure in one repository
does not affect the others; the command exits non-zero if any repository failed.

The message is the last argument unless it is given with -m, in which case
every argument is a repository path.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, msg, err := splitBatchArgs(args, message, cmd.Flags().Changed("message"))
			if err != nil {
				return err
			}
			return common.RunWithSplog(cmd, func(splog *tui.Splog) error {
				cfg, err := config.Load("")
				if err != nil {
					return err
				}
				ctx := cmd.Context()
				if ctx == nil {
					ctx = context.Background()
				}
				result, err := actions.BatchCommitAction(ctx, actions.BatchCommitOptions{
					Paths:       paths,
					Message:     msg,
					StageAll:    all,
					Concurrency: concurrency,
					JSON:        jsonOut,
					Config:      cfg,
					Splog:       splog,
				})
				if err != nil {
					return err
				}
				if len(result.Failures) > 0 {
					return errors.NewInvalidInputError("%d of %d repositories failed to commit", len(result.Failures), len(paths))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Stage every change in each repository before committing")
	cmd.Flags().IntVarP(&concurrency, "jobs", "j", 0, "Repositories to commit at once (default: batch.concurrency, then CPU count)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the per-repository results as JSON")

	return cmd
}

// splitBatchArgs separates repository paths from the commit message
func splitBatchArgs(args []string, message string, messageFlag bool) ([]string, string, error) {
	if messageFlag {
		return args, message, nil
	}
	if len(args) < 2 {
		return nil, "", errors.NewInvalidInputError("batch-commit needs at least one repository path and a message")
	}
	return args[:len(args)-1], args[len(args)-1], nil
}
