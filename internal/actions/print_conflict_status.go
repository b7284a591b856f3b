package actions

import (
	"reconcile.dev/reconcile/internal/engine"
	"reconcile.dev/reconcile/internal/tui"
)

// PrintConflictStatus displays conflict information and instructions to the user
func PrintConflictStatus(target string, result *engine.MergeResult, splog *tui.Splog) {
	splog.Info("%s", tui.ColorRed("Hit "+CountNoun(result.ConflictCount, "conflict")+" merging "+target))
	splog.Newline()

	if len(result.ConflictedPaths) > 0 {
		splog.Info("%s", tui.ColorYellow("Unmerged files:"))
		for _, file := range result.ConflictedPaths {
			splog.Info("  %s", tui.ColorRed(file))
		}
		splog.Newline()
	}

	splog.Info("%s", tui.ColorYellow("To finish the merge:"))
	splog.Info("(1) resolve each file with %s", tui.ColorCyan("reconcile conflicts resolve <path> ours|theirs|manual"))
	splog.Info("(2) run %s to record the merge commit", tui.ColorCyan("reconcile conflicts complete"))
	splog.Info("It's safe to cancel the merge with %s.", tui.ColorCyan("reconcile conflicts abort"))
}
