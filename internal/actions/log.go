package actions

import (
	"strings"

	"reconcile.dev/reconcile/internal/runtime"
	"reconcile.dev/reconcile/internal/tui"
)

// LogOptions contains options for the log command
type LogOptions struct {
	Limit int
	JSON  bool
}

// LogAction prints recent commits reachable from HEAD, newest first
func LogAction(ctx *runtime.Context, opts LogOptions) error {
	commits, err := ctx.Engine.History(opts.Limit)
	if err != nil {
		return err
	}
	if opts.JSON {
		return printJSON(ctx, commits)
	}
	if len(commits) == 0 {
		ctx.Splog.Info("No commits yet.")
		return nil
	}

	for _, c := range commits {
		line := tui.ColorCommitID(c.ID)
		if len(c.Refs) > 0 {
			line += " " + tui.ColorMagenta("("+strings.Join(c.Refs, ", ")+")")
		}
		line += " " + c.Summary()
		if len(c.Parents) > 1 {
			line += " " + tui.ColorDim("[merge]")
		}
		ctx.Splog.Info("%s", line)
		ctx.Splog.Info("    %s", tui.ColorDim(c.Author+" <"+c.Email+"> "+c.Timestamp.Format("2006-01-02 15:04")))
	}
	return nil
}
