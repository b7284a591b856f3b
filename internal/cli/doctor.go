package cli

import (
	"github.com/spf13/cobra"

	"reconcile.dev/reconcile/internal/actions/doctor"
	"reconcile.dev/reconcile/internal/cli/common"
	"reconcile.dev/reconcile/internal/tui"
)

// newDoctorCmd creates the doctor command
func newDoctorCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment and repository for problems",
		Long: `Checks the reconcile configuration, commit identity, HEAD, remotes and any
pending merge. With --fix, merge state that points at a missing commit is cleared.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return common.RunWithSplog(cmd, func(splog *tui.Splog) error {
				return doctor.Action(splog, doctor.Options{Dir: common.WorkingDir(cmd), Fix: fix})
			})
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "Clear stale merge state")
	return cmd
}
