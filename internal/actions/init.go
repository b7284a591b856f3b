package actions

import (
	"reconcile.dev/reconcile/internal/git"
	"reconcile.dev/reconcile/internal/tui"
)

// InitOptions contains options for the init command
type InitOptions struct {
	Dir           string
	DefaultBranch string
}

// InitAction creates a new repository with an unborn default branch
func InitAction(splog *tui.Splog, opts InitOptions) error {
	repo, err := git.Init(opts.Dir, opts.DefaultBranch)
	if err != nil {
		return err
	}
	head, err := repo.Head()
	if err != nil {
		return err
	}
	splog.Success("Initialized empty repository in %s on %s", repo.Root(), tui.ColorBranchName(head.BranchShort(), true))
	return nil
}
