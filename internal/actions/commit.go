package actions

import (
	"reconcile.dev/reconcile/internal/runtime"
	"reconcile.dev/reconcile/internal/tui"
)

// CommitOptions contains options for the commit command
type CommitOptions struct {
	Message string
	// All stages every change before committing
	All bool
}

// CommitAction records the index as a new commit on the current branch
func CommitAction(ctx *runtime.Context, opts CommitOptions) error {
	message := opts.Message
	if message == "" && tui.Interactive() {
		var err error
		message, err = tui.PromptTextInput("Commit message:", "")
		if err != nil {
			return err
		}
	}

	if opts.All {
		if err := ctx.Engine.StageAll(); err != nil {
			return err
		}
	}

	id, err := ctx.Engine.Commit(message)
	if err != nil {
		return err
	}
	ctx.Splog.Success("Committed %s", tui.ColorCommitID(id))
	return nil
}

// RevokeLastAction moves the branch back one commit, keeping its changes staged
func RevokeLastAction(ctx *runtime.Context) error {
	if err := ctx.Engine.RevokeLastCommit(); err != nil {
		return err
	}
	ctx.Splog.Success("Revoked the last commit; its changes are staged.")
	return nil
}
