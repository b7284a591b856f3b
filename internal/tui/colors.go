package tui

import (
	"github.com/charmbracelet/lipgloss"

	"reconcile.dev/reconcile/internal/engine"
)

var (
	redStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	greenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	yellowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	cyanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	magentaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	boldStyle    = lipgloss.NewStyle().Bold(true)
)

// ColorRed colors text red
func ColorRed(text string) string { return redStyle.Render(text) }

// ColorGreen colors text green
func ColorGreen(text string) string { return greenStyle.Render(text) }

// ColorYellow colors text yellow
func ColorYellow(text string) string { return yellowStyle.Render(text) }

// ColorCyan colors text cyan
func ColorCyan(text string) string { return cyanStyle.Render(text) }

// ColorMagenta colors text magenta
func ColorMagenta(text string) string { return magentaStyle.Render(text) }

// ColorDim makes text dim/gray
func ColorDim(text string) string { return dimStyle.Render(text) }

// Bold renders text in bold
func Bold(text string) string { return boldStyle.Render(text) }

// ColorBranchName colors a branch name based on whether it's current
func ColorBranchName(branchName string, isCurrent bool) string {
	if isCurrent {
		return cyanStyle.Bold(true).Render(branchName)
	}
	return cyanStyle.Render(branchName)
}

// ColorCommitID colors an abbreviated commit id
func ColorCommitID(id string) string { return yellowStyle.Render(engine.ShortID(id)) }

// ColorFileStatus colors a status label the way git status does: staged
// entries green, everything needing attention red
func ColorFileStatus(status engine.FileStatus, staged bool) string {
	label := string(status)
	switch {
	case status == engine.StatusUnmerged:
		return redStyle.Bold(true).Render(label)
	case status == engine.StatusUntracked:
		return dimStyle.Render(label)
	case staged:
		return greenStyle.Render(label)
	default:
		return redStyle.Render(label)
	}
}
