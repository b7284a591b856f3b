package actions

import (
	"fmt"

	"reconcile.dev/reconcile/internal/runtime"
	"reconcile.dev/reconcile/internal/tui"
)

// BranchInfoOptions contains options for the branch-info command
type BranchInfoOptions struct {
	JSON bool
}

// BranchInfoAction prints the current branch, its upstream and divergence
func BranchInfoAction(ctx *runtime.Context, opts BranchInfoOptions) error {
	info, err := ctx.Engine.BranchInfo()
	if err != nil {
		return err
	}
	if opts.JSON {
		return printJSON(ctx, info)
	}

	ctx.Splog.Info("Branch:    %s", tui.ColorBranchName(info.Current, true))
	if info.Upstream != "" {
		ctx.Splog.Info("Upstream:  %s", tui.ColorCyan(info.Upstream))
	} else {
		ctx.Splog.Info("Upstream:  %s", tui.ColorDim("(none)"))
	}
	ctx.Splog.Info("Published: %t", info.IsPublished)
	ctx.Splog.Info("Ahead:     %d", info.Ahead)
	ctx.Splog.Info("Behind:    %d", info.Behind)
	if info.NeedPush {
		ctx.Splog.Tip("%s has commits that are not on %s", info.Current, info.Upstream)
	}
	return nil
}

// AheadBehindAction prints "<ahead> <behind>" for a local branch against its upstream
func AheadBehindAction(ctx *runtime.Context, branch string) error {
	ahead, behind, err := ctx.Engine.AheadBehind(branch)
	if err != nil {
		return err
	}
	ctx.Splog.Page(fmt.Sprintf("%d %d\n", ahead, behind))
	return nil
}
