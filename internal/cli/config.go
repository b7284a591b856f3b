package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"reconcile.dev/reconcile/internal/actions"
	"reconcile.dev/reconcile/internal/cli/common"
	"reconcile.dev/reconcile/internal/config"
	"reconcile.dev/reconcile/internal/git"
	"reconcile.dev/reconcile/internal/tui"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get and set reconcile configuration",
		Long: `Get and set configuration values. Repository values live in
.git/.reconcile_config; --global targets the user file instead.

Keys: ` + strings.Join(config.Keys(), ", ") + `

Examples:
  reconcile config set merge.conflictStyle diff3
  reconcile config set --global author.email me@example.com
  reconcile config get batch.concurrency`,
	}
	cmd.PersistentFlags().BoolVar(&global, "global", false, "Use the user configuration file")

	resolve := func(cmd *cobra.Command) (actions.ConfigOptions, error) {
		if global {
			return actions.ConfigOptions{Global: true}, nil
		}
		repo, err := git.Open(common.WorkingDir(cmd))
		if err != nil {
			return actions.ConfigOptions{}, err
		}
		return actions.ConfigOptions{RepoRoot: repo.Root()}, nil
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolve(cmd)
			if err != nil {
				return err
			}
			return common.RunWithSplog(cmd, func(splog *tui.Splog) error {
				return actions.ConfigGetAction(splog, opts, args[0])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolve(cmd)
			if err != nil {
				return err
			}
			return common.RunWithSplog(cmd, func(splog *tui.Splog) error {
				return actions.ConfigSetAction(splog, opts, args[0], args[1])
			})
		},
	})

	return cmd
}
