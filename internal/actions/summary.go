package actions

import (
	"reconcile.dev/reconcile/internal/engine"
	"reconcile.dev/reconcile/internal/runtime"
)

// SummaryAction prints a plain-text description of the branch and its pending changes
func SummaryAction(ctx *runtime.Context) error {
	text, err := engine.Summary(ctx.Engine)
	if err != nil {
		return err
	}
	ctx.Splog.Page(text)
	return nil
}
