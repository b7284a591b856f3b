// Package cli wires reconcile's commands into a cobra command tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"reconcile.dev/reconcile/internal/errors"
	"reconcile.dev/reconcile/internal/tui"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	var (
		cwd           string
		debug         bool
		noInteractive bool
	)

	rootCmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Inspect repository state and drive merges to completion",
		Long: `reconcile reports working tree status and branch divergence, performs merges,
and walks you through resolving conflicts, all against a local repository.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if noInteractive {
				_ = os.Setenv(tui.NonInteractiveEnv, "1")
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cwd, "cwd", "C", "", "Run as if started in this directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Print debug output")
	rootCmd.PersistentFlags().BoolVar(&noInteractive, "no-interactive", false, "Never prompt; fail when input is missing")

	rootCmd.AddCommand(
		newStatusCmd(),
		newBranchInfoCmd(),
		newAheadBehindCmd(),
		newMergeCmd(),
		newPullCmd(),
		newConflictsCmd(),
		newCommitCmd(),
		newRevokeLastCmd(),
		newBatchCommitCmd(),
		newLogCmd(),
		newDiffCmd(),
		newAddCmd(),
		newResetCmd(),
		newBranchCmd(),
		newSummaryCmd(),
		newInitCmd(),
		newConfigCmd(),
		newDoctorCmd(),
	)

	return rootCmd
}

// Execute runs the command tree and returns the process exit code
func Execute(rootCmd *cobra.Command, stderr io.Writer) int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	fmt.Fprintf(stderr, "%s %s\n", tui.ColorRed("error:"), err)
	if kind := errors.Kind(err); kind != "" && kind != "Unknown" {
		fmt.Fprintf(stderr, "%s\n", tui.ColorDim("("+kind+")"))
	}
	return 1
}
