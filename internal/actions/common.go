package actions

import (
	"fmt"
	"strings"

	"reconcile.dev/reconcile/internal/engine"
	"reconcile.dev/reconcile/internal/tui"
)

// PluralSuffix returns "s" if plural is true, otherwise empty string
func PluralSuffix(plural bool) string {
	if plural {
		return "s"
	}
	return ""
}

// CountNoun formats a count with a correctly pluralized noun
func CountNoun(n int, noun string) string {
	return fmt.Sprintf("%d %s%s", n, noun, PluralSuffix(n != 1))
}

// formatStatusItem renders one status line, including the rename source
func formatStatusItem(item engine.StatusItem, staged bool) string {
	// Pad before coloring; escape codes would throw off %-Ns
	label := tui.ColorFileStatus(item.Status, staged) + strings.Repeat(" ", max(0, 11-len(item.Status)))
	if item.OldPath != "" {
		return fmt.Sprintf("  %s %s -> %s", label, item.OldPath, item.Path)
	}
	return fmt.Sprintf("  %s %s", label, item.Path)
}
