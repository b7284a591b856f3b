package actions

import (
	"reconcile.dev/reconcile/internal/runtime"
	"reconcile.dev/reconcile/internal/tui"
)

// BranchListOptions contains options for branch list
type BranchListOptions struct {
	JSON bool
}

// BranchListAction prints local branches, the checked out one first
func BranchListAction(ctx *runtime.Context, opts BranchListOptions) error {
	branches, err := ctx.Engine.LocalBranches()
	if err != nil {
		return err
	}
	if opts.JSON {
		return printJSON(ctx, branches)
	}
	for _, b := range branches {
		marker := "  "
		if b.IsHead {
			marker = "* "
		}
		line := marker + tui.ColorBranchName(b.Name, b.IsHead)
		if b.Upstream != "" {
			line += " " + tui.ColorDim("["+b.Upstream+"]")
		}
		ctx.Splog.Info("%s", line)
	}
	return nil
}

// BranchCreateAction creates a branch at base (HEAD when empty), optionally switching to it
func BranchCreateAction(ctx *runtime.Context, name, base string, checkout bool) error {
	if err := ctx.Engine.CreateBranch(name, base); err != nil {
		return err
	}
	ctx.Splog.Success("Created branch %s", tui.ColorBranchName(name, false))
	if checkout {
		return BranchSwitchAction(ctx, name)
	}
	return nil
}

// BranchSwitchAction checks out an existing local branch
func BranchSwitchAction(ctx *runtime.Context, name string) error {
	if err := ctx.Engine.SwitchBranch(name); err != nil {
		return err
	}
	ctx.Splog.Success("Switched to %s", tui.ColorBranchName(name, true))
	return nil
}

// BranchDeleteAction deletes a local branch that is not checked out
func BranchDeleteAction(ctx *runtime.Context, name string) error {
	if err := ctx.Engine.DeleteBranch(name); err != nil {
		return err
	}
	ctx.Splog.Success("Deleted branch %s", name)
	return nil
}

// BranchRenameAction renames a local branch
func BranchRenameAction(ctx *runtime.Context, oldName, newName string) error {
	if err := ctx.Engine.RenameBranch(oldName, newName); err != nil {
		return err
	}
	ctx.Splog.Success("Renamed %s to %s", oldName, tui.ColorBranchName(newName, false))
	return nil
}
