package git

import (
	"github.com/pmezard/go-difflib/difflib"

	"reconcile.dev/reconcile/internal/errors"
)

// UnifiedDiff renders a unified diff between two versions of a path with
// three lines of context. Binary content yields a one-line notice.
func UnifiedDiff(path string, before, after []byte, fromLabel, toLabel string) (string, error) {
	if IsBinary(before) || IsBinary(after) {
		return "Binary files " + fromLabel + " and " + toLabel + " differ\n", nil
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  3,
	}
	if len(before) == 0 {
		diff.A = nil
	}
	if len(after) == 0 {
		diff.B = nil
	}
	out, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", errors.NewIOError("diff", path, err)
	}
	return out, nil
}
