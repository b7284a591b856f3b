package actions

import (
	"reconcile.dev/reconcile/internal/errors"
	"reconcile.dev/reconcile/internal/runtime"
)

// AddOptions contains options for the add command
type AddOptions struct {
	Paths []string
	All   bool
}

// AddAction stages paths, or every change with All
func AddAction(ctx *runtime.Context, opts AddOptions) error {
	if opts.All {
		if err := ctx.Engine.StageAll(); err != nil {
			return err
		}
		ctx.Splog.Success("Staged all changes")
		return nil
	}
	if len(opts.Paths) == 0 {
		return errors.NewInvalidInputError("nothing specified, nothing added (use --all to stage everything)")
	}
	if err := ctx.Engine.Stage(opts.Paths...); err != nil {
		return err
	}
	ctx.Splog.Success("Staged %s", CountNoun(len(opts.Paths), "path"))
	return nil
}

// ResetAction unstages paths, or everything when none are given
func ResetAction(ctx *runtime.Context, paths []string) error {
	if len(paths) == 0 {
		if err := ctx.Engine.UnstageAll(); err != nil {
			return err
		}
		ctx.Splog.Success("Unstaged all changes")
		return nil
	}
	if err := ctx.Engine.Unstage(paths...); err != nil {
		return err
	}
	ctx.Splog.Success("Unstaged %s", CountNoun(len(paths), "path"))
	return nil
}
