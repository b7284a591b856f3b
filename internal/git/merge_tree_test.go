package git_test

import (
	"testing"

	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/stretchr/testify/require"

	"reconcile.dev/reconcile/internal/git"
)

func newTestRepo(t *testing.T) *git.Repository {
	t.Helper()
	repo, err := git.Init(t.TempDir(), "main")
	require.NoError(t, err)
	return repo
}

func blob(t *testing.T, repo *git.Repository, content string) git.TreeFile {
	t.Helper()
	hash, err := repo.WriteBlob([]byte(content))
	require.NoError(t, err)
	return git.TreeFile{Hash: hash, Mode: filemode.Regular}
}

func TestMergeTrees(t *testing.T) {
	repo := newTestRepo(t)
	opts := git.MergeTreeOptions{Labels: testLabels, Style: git.ConflictStyleMerge}

	t.Run("one-sided changes are taken", func(t *testing.T) {
		base := git.FlatTree{"a.txt": blob(t, repo, "a\n"), "b.txt": blob(t, repo, "b\n"), "gone.txt": blob(t, repo, "x\n")}
		ours := git.FlatTree{"a.txt": blob(t, repo, "A\n"), "b.txt": base["b.txt"], "gone.txt": base["gone.txt"]}
		theirs := git.FlatTree{"a.txt": base["a.txt"], "b.txt": blob(t, repo, "B\n"), "new.txt": blob(t, repo, "new\n")}

		result, err := repo.MergeTrees(base, ours, theirs, opts)
		require.NoError(t, err)
		require.Empty(t, result.Conflicts)
		require.Equal(t, []string{"a.txt", "b.txt", "new.txt"}, result.Merged.Paths())
		require.Equal(t, ours["a.txt"], result.Merged["a.txt"])
		require.Equal(t, theirs["b.txt"], result.Merged["b.txt"])
	})

	t.Run("non-overlapping edits to one file merge by line", func(t *testing.T) {
		base := git.FlatTree{"f": blob(t, repo, "1\n2\n3\n4\n5\n")}
		ours := git.FlatTree{"f": blob(t, repo, "one\n2\n3\n4\n5\n")}
		theirs := git.FlatTree{"f": blob(t, repo, "1\n2\n3\n4\nfive\n")}

		result, err := repo.MergeTrees(base, ours, theirs, opts)
		require.NoError(t, err)
		require.Empty(t, result.Conflicts)

		content, err := repo.ReadBlob(result.Merged["f"].Hash)
		require.NoError(t, err)
		require.Equal(t, "one\n2\n3\n4\nfive\n", string(content))
	})

	t.Run("same line edit conflicts with marker content", func(t *testing.T) {
		base := git.FlatTree{"f": blob(t, repo, "x\n")}
		ours := git.FlatTree{"f": blob(t, repo, "ours\n")}
		theirs := git.FlatTree{"f": blob(t, repo, "theirs\n")}

		result, err := repo.MergeTrees(base, ours, theirs, opts)
		require.NoError(t, err)
		require.Len(t, result.Conflicts, 1)
		c := result.Conflicts[0]
		require.Equal(t, "f", c.Path)
		require.Equal(t, "content", c.Reason)
		require.NotNil(t, c.Base)
		require.Contains(t, string(c.WorkContent), "<<<<<<< HEAD")
		_, merged := result.Merged["f"]
		require.False(t, merged)
	})

	t.Run("modify/delete keeps the surviving side in the working tree", func(t *testing.T) {
		base := git.FlatTree{"f": blob(t, repo, "v1\n")}
		ours := git.FlatTree{"f": blob(t, repo, "v2\n")}
		theirs := git.FlatTree{}

		result, err := repo.MergeTrees(base, ours, theirs, opts)
		require.NoError(t, err)
		require.Len(t, result.Conflicts, 1)
		require.Equal(t, "modify/delete", result.Conflicts[0].Reason)
		require.Nil(t, result.Conflicts[0].Theirs)
		require.Equal(t, "v2\n", string(result.Conflicts[0].WorkContent))
	})

	t.Run("both deleting is clean", func(t *testing.T) {
		base := git.FlatTree{"f": blob(t, repo, "v1\n")}

		result, err := repo.MergeTrees(base, git.FlatTree{}, git.FlatTree{}, opts)
		require.NoError(t, err)
		require.Empty(t, result.Conflicts)
		require.Empty(t, result.Merged)
	})

	t.Run("add/add with different content", func(t *testing.T) {
		ours := git.FlatTree{"n": blob(t, repo, "mine\n")}
		theirs := git.FlatTree{"n": blob(t, repo, "yours\n")}

		result, err := repo.MergeTrees(git.FlatTree{}, ours, theirs, opts)
		require.NoError(t, err)
		require.Len(t, result.Conflicts, 1)
		require.Equal(t, "add/add", result.Conflicts[0].Reason)
		require.Nil(t, result.Conflicts[0].Base)
	})

	t.Run("binary changes on both sides conflict without markers", func(t *testing.T) {
		base := git.FlatTree{"bin": blob(t, repo, "\x00base")}
		ours := git.FlatTree{"bin": blob(t, repo, "\x00ours")}
		theirs := git.FlatTree{"bin": blob(t, repo, "\x00theirs")}

		result, err := repo.MergeTrees(base, ours, theirs, opts)
		require.NoError(t, err)
		require.Len(t, result.Conflicts, 1)
		require.Equal(t, "binary", result.Conflicts[0].Reason)
		require.Equal(t, "\x00ours", string(result.Conflicts[0].WorkContent))
	})

	t.Run("executable bit change merges with a content change", func(t *testing.T) {
		base := git.FlatTree{"run.sh": blob(t, repo, "echo 1\n")}
		exec := base["run.sh"]
		exec.Mode = filemode.Executable
		ours := git.FlatTree{"run.sh": exec}
		theirs := git.FlatTree{"run.sh": blob(t, repo, "echo 2\n")}

		result, err := repo.MergeTrees(base, ours, theirs, opts)
		require.NoError(t, err)
		require.Empty(t, result.Conflicts)
		require.Equal(t, filemode.Executable, result.Merged["run.sh"].Mode)
		require.Equal(t, theirs["run.sh"].Hash, result.Merged["run.sh"].Hash)
	})
}
