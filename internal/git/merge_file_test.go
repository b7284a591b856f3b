package git_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"reconcile.dev/reconcile/internal/git"
)

var testLabels = git.MergeLabels{Ours: "HEAD", Base: "base", Theirs: "feature"}

func TestMergeLines(t *testing.T) {
	t.Run("non-overlapping edits merge cleanly", func(t *testing.T) {
		base := []byte("a\nb\nc\nd\ne\n")
		ours := []byte("A\nb\nc\nd\ne\n")
		theirs := []byte("a\nb\nc\nd\nE\n")

		result := git.MergeLines(base, ours, theirs, testLabels, git.ConflictStyleMerge)
		require.Equal(t, 0, result.Conflicts)
		require.Equal(t, "A\nb\nc\nd\nE\n", string(result.Content))
	})

	t.Run("identical edits on both sides are not a conflict", func(t *testing.T) {
		base := []byte("one\ntwo\n")
		same := []byte("one\nTWO\n")

		result := git.MergeLines(base, same, same, testLabels, git.ConflictStyleMerge)
		require.Equal(t, 0, result.Conflicts)
		require.Equal(t, "one\nTWO\n", string(result.Content))
	})

	t.Run("one side unchanged takes the other", func(t *testing.T) {
		base := []byte("x\ny\n")
		theirs := []byte("x\ny\nz\n")

		result := git.MergeLines(base, base, theirs, testLabels, git.ConflictStyleMerge)
		require.Equal(t, 0, result.Conflicts)
		require.Equal(t, "x\ny\nz\n", string(result.Content))
	})

	t.Run("same line edited differently yields markers", func(t *testing.T) {
		base := []byte("line 1\nline 2\nline 3\n")
		ours := []byte("line 1\nmain change\nline 3\n")
		theirs := []byte("line 1\nfeature change\nline 3\n")

		result := git.MergeLines(base, ours, theirs, testLabels, git.ConflictStyleMerge)
		require.Equal(t, 1, result.Conflicts)
		require.Equal(t, "line 1\n"+
			"<<<<<<< HEAD\n"+
			"main change\n"+
			"=======\n"+
			"feature change\n"+
			">>>>>>> feature\n"+
			"line 3\n", string(result.Content))
	})

	t.Run("diff3 style includes the ancestor", func(t *testing.T) {
		base := []byte("line 1\nline 2\nline 3\n")
		ours := []byte("line 1\nmain change\nline 3\n")
		theirs := []byte("line 1\nfeature change\nline 3\n")

		result := git.MergeLines(base, ours, theirs, testLabels, git.ConflictStyleDiff3)
		require.Equal(t, 1, result.Conflicts)
		require.Contains(t, string(result.Content), "||||||| base\nline 2\n=======\n")
	})

	t.Run("missing final newline is kept inside markers", func(t *testing.T) {
		result := git.MergeLines([]byte("a"), []byte("b"), []byte("c"), testLabels, git.ConflictStyleMerge)
		require.Equal(t, 1, result.Conflicts)
		require.Equal(t, "<<<<<<< HEAD\nb\n=======\nc\n>>>>>>> feature\n", string(result.Content))
	})

	t.Run("add/add with no base conflicts", func(t *testing.T) {
		result := git.MergeLines(nil, []byte("ours\n"), []byte("theirs\n"), testLabels, git.ConflictStyleMerge)
		require.Equal(t, 1, result.Conflicts)
	})
}

func TestIsBinary(t *testing.T) {
	require.False(t, git.IsBinary([]byte("plain text\n")))
	require.True(t, git.IsBinary([]byte{'a', 0, 'b'}))

	late := make([]byte, 9000)
	for i := range late {
		late[i] = 'x'
	}
	late[8500] = 0
	require.False(t, git.IsBinary(late), "NUL after the sniff window is ignored")
}
