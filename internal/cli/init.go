package cli

import (
	"github.com/spf13/cobra"

	"reconcile.dev/reconcile/internal/actions"
	"reconcile.dev/reconcile/internal/cli/common"
	"reconcile.dev/reconcile/internal/tui"
)

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create an empty repository",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := common.WorkingDir(cmd)
			if len(args) == 1 {
				dir = args[0]
			}
			return common.RunWithSplog(cmd, func(splog *tui.Splog) error {
				return actions.InitAction(splog, actions.InitOptions{Dir: dir, DefaultBranch: branch})
			})
		},
	}
	cmd.Flags().StringVarP(&branch, "initial-branch", "b", "main", "Name of the unborn default branch")
	return cmd
}
