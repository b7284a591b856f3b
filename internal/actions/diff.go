package actions

import (
	"reconcile.dev/reconcile/internal/runtime"
	"reconcile.dev/reconcile/internal/tui"
)

// DiffOptions contains options for the diff command
type DiffOptions struct {
	Path   string
	Staged bool
}

// DiffAction prints the unified diff for one path. Without --staged both the
// staged and unstaged halves are shown.
func DiffAction(ctx *runtime.Context, opts DiffOptions) error {
	d, err := ctx.Engine.FileDiff(opts.Path)
	if err != nil {
		return err
	}
	if d.Staged == "" && d.Unstaged == "" {
		ctx.Splog.Info("No changes in %s", opts.Path)
		return nil
	}
	if d.Staged != "" {
		if !opts.Staged {
			ctx.Splog.Info("%s", tui.Bold("Staged:"))
		}
		ctx.Splog.Page(d.Staged)
	}
	if d.Unstaged != "" && !opts.Staged {
		ctx.Splog.Info("%s", tui.Bold("Unstaged:"))
		ctx.Splog.Page(d.Unstaged)
	}
	return nil
}
