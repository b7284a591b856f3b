package engine

import (
	"fmt"
	"strings"
)

// maxSummaryDiffBytes caps how much staged diff text Summary includes
const maxSummaryDiffBytes = 16 * 1024

// Summary renders a plain-text description of the branch, its status and the
// staged changes, suitable for handing to external tools such as
// commit-message generators.
func Summary(eng Engine) (string, error) {
	info, err := eng.BranchInfo()
	if err != nil {
		return "", err
	}
	status, err := eng.Status()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Branch: %s\n", info.Current)
	if info.Upstream != "" {
		fmt.Fprintf(&b, "Upstream: %s (ahead %d, behind %d)\n", info.Upstream, info.Ahead, info.Behind)
	}

	sections := []struct {
		title string
		items []StatusItem
	}{
		{"Staged", status.Staged},
		{"Unstaged", status.Unstaged},
		{"Untracked", status.Untracked},
		{"Conflicted", status.Conflicted},
	}
	for _, s := range sections {
		if len(s.items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s (%d):\n", s.title, len(s.items))
		for _, item := range s.items {
			if item.OldPath != "" {
				fmt.Fprintf(&b, "  %s: %s -> %s\n", item.Status, item.OldPath, item.Path)
				continue
			}
			fmt.Fprintf(&b, "  %s: %s\n", item.Status, item.Path)
		}
	}

	var diffs strings.Builder
	for _, item := range status.Staged {
		d, err := eng.FileDiff(item.Path)
		if err != nil {
			return "", err
		}
		diffs.WriteString(d.Staged)
		if diffs.Len() > maxSummaryDiffBytes {
			break
		}
	}
	if diffs.Len() > 0 {
		text := diffs.String()
		if len(text) > maxSummaryDiffBytes {
			text = text[:maxSummaryDiffBytes] + "\n... (truncated)\n"
		}
		b.WriteString("\nStaged diff:\n")
		b.WriteString(text)
	}
	return b.String(), nil
}
