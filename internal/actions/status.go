package actions

import (
	"encoding/json"

	"reconcile.dev/reconcile/internal/engine"
	"reconcile.dev/reconcile/internal/runtime"
	"reconcile.dev/reconcile/internal/tui"
)

// StatusOptions contains options for the status command
type StatusOptions struct {
	JSON bool
}

// StatusAction prints the staged, unstaged, untracked and conflicted paths
func StatusAction(ctx *runtime.Context, opts StatusOptions) error {
	status, err := ctx.Engine.Status()
	if err != nil {
		return err
	}
	if opts.JSON {
		return printJSON(ctx, status)
	}

	info, err := ctx.Engine.BranchInfo()
	if err != nil {
		return err
	}
	printBranchHeader(ctx, info)

	if !status.HasChanges() {
		ctx.Splog.Info("nothing to commit, working tree clean")
		return nil
	}

	sections := []struct {
		title  string
		items  []engine.StatusItem
		staged bool
	}{
		{"Conflicted:", status.Conflicted, false},
		{"Changes to be committed:", status.Staged, true},
		{"Changes not staged for commit:", status.Unstaged, false},
		{"Untracked files:", status.Untracked, false},
	}
	for _, s := range sections {
		if len(s.items) == 0 {
			continue
		}
		ctx.Splog.Info("%s", tui.Bold(s.title))
		for _, item := range s.items {
			ctx.Splog.Info("%s", formatStatusItem(item, s.staged))
		}
		ctx.Splog.Newline()
	}
	return nil
}

func printBranchHeader(ctx *runtime.Context, info *engine.BranchInfo) {
	ctx.Splog.Info("On branch %s", tui.ColorBranchName(info.Current, true))
	if info.Upstream == "" {
		return
	}
	switch {
	case !info.IsPublished:
		ctx.Splog.Info("Upstream %s is gone", tui.ColorYellow(info.Upstream))
	case info.Ahead == 0 && info.Behind == 0:
		ctx.Splog.Info("Up to date with %s", tui.ColorCyan(info.Upstream))
	default:
		ctx.Splog.Info("Ahead of %s by %s, behind by %s",
			tui.ColorCyan(info.Upstream), CountNoun(info.Ahead, "commit"), CountNoun(info.Behind, "commit"))
	}
	ctx.Splog.Newline()
}

func printJSON(ctx *runtime.Context, v any) error {
	return writeJSON(ctx.Splog, v)
}

func writeJSON(splog *tui.Splog, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	splog.Page(string(data) + "\n")
	return nil
}
