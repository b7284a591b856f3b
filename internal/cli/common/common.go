// Package common provides shared helper functions for CLI commands.
package common

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"reconcile.dev/reconcile/internal/runtime"
	"reconcile.dev/reconcile/internal/tui"
)

// NewSplog builds the command's logger, writing to the command's output
// stream and to the rotating log file
func NewSplog(cmd *cobra.Command) (*tui.Splog, error) {
	debug := os.Getenv("DEBUG") != ""
	if f := cmd.Flag("debug"); f != nil && f.Value.String() == "true" {
		debug = true
	}
	return tui.NewSplogWithConfig(cmd.OutOrStdout(), tui.GetLogFilePath(), debug)
}

// WorkingDir returns the --cwd flag value, or "." when unset
func WorkingDir(cmd *cobra.Command) string {
	if f := cmd.Flag("cwd"); f != nil && f.Value.String() != "" {
		return f.Value.String()
	}
	return "."
}

// Run is a helper that provides a runtime context to a command's execution function
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	splog, err := NewSplog(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = splog.Close() }()

	ctx, err := runtime.GetContext(cmd.Context(), WorkingDir(cmd), splog)
	if err != nil {
		return err
	}
	splog.Debug("repository root: %s", ctx.RepoRoot)
	return fn(ctx)
}

// RunWithSplog runs fn with a logger but without opening a repository
func RunWithSplog(cmd *cobra.Command, fn func(splog *tui.Splog) error) error {
	splog, err := NewSplog(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = splog.Close() }()
	return fn(splog)
}

// silentSplog keeps completion output free of log lines
func silentSplog() *tui.Splog {
	splog, _ := tui.NewSplogWithConfig(io.Discard, "", false)
	return splog
}

// CompleteBranches is a helper for cobra.ValidArgsFunction and RegisterFlagCompletionFunc
// that returns all local branch names in the repository.
func CompleteBranches(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	ctx, err := runtime.GetContext(cmd.Context(), WorkingDir(cmd), silentSplog())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	branches, err := ctx.Engine.LocalBranches()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	names := make([]string, len(branches))
	for i, b := range branches {
		names[i] = b.Name
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// CompleteConflicts returns the currently conflicted paths
func CompleteConflicts(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	ctx, err := runtime.GetContext(cmd.Context(), WorkingDir(cmd), silentSplog())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	state, err := ctx.Engine.MergeState()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	paths := make([]string, len(state.Conflicts))
	for i, c := range state.Conflicts {
		paths[i] = c.Path
	}
	return paths, cobra.ShellCompDirectiveNoFileComp
}
