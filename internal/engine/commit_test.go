package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"reconcile.dev/reconcile/internal/engine"
	"reconcile.dev/reconcile/internal/errors"
	"reconcile.dev/reconcile/internal/git"
	"reconcile.dev/reconcile/testhelpers"
	"reconcile.dev/reconcile/testhelpers/scenario"
)

func headTreeHash(t *testing.T, s *scenario.Scenario) string {
	t.Helper()
	repo := testhelpers.Must(git.Open(s.Scene.Dir))
	commit, err := repo.HeadCommit()
	require.NoError(t, err)
	return commit.TreeHash.String()
}

func TestCommit(t *testing.T) {
	t.Run("records the index on the current branch", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup).WriteFile("a.txt", "a\n")
		require.NoError(t, s.Engine.Stage("a.txt"))

		id, err := s.Engine.Commit("add a")
		require.NoError(t, err)
		require.Equal(t, id, testhelpers.Must(s.Scene.Repo.GetRevision("main")))

		history, err := s.Engine.History(0)
		require.NoError(t, err)
		require.Len(t, history, 2)
		require.Equal(t, "add a", history[0].Summary())
		require.Equal(t, testhelpers.TestUserName, history[0].Author)

		status, err := s.Engine.Status()
		require.NoError(t, err)
		require.True(t, status.IsClean())
	})

	t.Run("first commit on an unborn branch has no parents", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).WriteFile("first.txt", "1\n")
		require.NoError(t, s.Engine.StageAll())

		_, err := s.Engine.Commit("root")
		require.NoError(t, err)
		require.Equal(t, 0, headCommitParents(t, s))
	})

	t.Run("nothing staged", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup).WithUncommittedChange("wip")
		_, err := s.Engine.Commit("nothing")
		require.ErrorIs(t, err, errors.ErrNothingToCommit)
	})

	t.Run("empty index on an unborn branch", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)
		_, err := s.Engine.Commit("nothing")
		require.ErrorIs(t, err, errors.ErrNothingToCommit)
	})

	t.Run("empty index with history", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)
		before := testhelpers.Must(s.Scene.Repo.GetRevision("main"))
		require.NoError(t, s.Scene.Repo.DeleteFile("1_test.txt"))
		require.NoError(t, s.Engine.StageAll())

		_, err := s.Engine.Commit("remove everything")
		require.ErrorIs(t, err, errors.ErrNothingToCommit)
		require.Equal(t, before, testhelpers.Must(s.Scene.Repo.GetRevision("main")))
	})

	t.Run("empty message", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)
		_, err := s.Engine.Commit("   ")
		require.ErrorIs(t, err, errors.ErrInvalidInput)
	})

	t.Run("refuses while conflicts remain", func(t *testing.T) {
		s := conflicted(t)
		_, err := s.Engine.Commit("too early")
		require.ErrorIs(t, err, errors.ErrMergeInProgress)
	})

	t.Run("commits on a detached HEAD", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Scene.Repo.CheckoutDetached("main"))
		s.WriteFile("d.txt", "d\n")
		require.NoError(t, s.Engine.Stage("d.txt"))

		id, err := s.Engine.Commit("detached work")
		require.NoError(t, err)
		require.Equal(t, id, testhelpers.Must(s.Scene.Repo.GetRevision("HEAD")))
		require.NotEqual(t, id, testhelpers.Must(s.Scene.Repo.GetRevision("main")))
	})
}

func TestRevokeLastCommit(t *testing.T) {
	t.Run("revoke then recommit reproduces the tree", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup).
			CommitFile("a.txt", "a\n", "add a")
		tree := headTreeHash(t, s)
		parent := testhelpers.Must(s.Scene.Repo.GetRevision("main~1"))

		require.NoError(t, s.Engine.RevokeLastCommit())
		require.Equal(t, parent, testhelpers.Must(s.Scene.Repo.GetRevision("main")))
		testhelpers.ExpectFileContent(t, s.Scene.Repo, "a.txt", "a\n")

		status, err := s.Engine.Status()
		require.NoError(t, err)
		require.Equal(t, []engine.StatusItem{{Path: "a.txt", Status: engine.StatusAdded}}, status.Staged)

		_, err = s.Engine.Commit("add a again")
		require.NoError(t, err)
		require.Equal(t, tree, headTreeHash(t, s))
	})

	t.Run("root commit cannot be revoked", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)
		require.ErrorIs(t, s.Engine.RevokeLastCommit(), errors.ErrInvalidInput)
	})

	t.Run("unborn branch", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)
		require.ErrorIs(t, s.Engine.RevokeLastCommit(), errors.ErrUnbornBranch)
	})
}

func TestStaging(t *testing.T) {
	t.Run("stage a directory", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup).
			WriteFile("dir/a.txt", "a\n").
			WriteFile("dir/sub/b.txt", "b\n").
			WriteFile("other.txt", "o\n")

		require.NoError(t, s.Engine.Stage("dir"))
		status, err := s.Engine.Status()
		require.NoError(t, err)
		require.Equal(t, []string{"dir/a.txt", "dir/sub/b.txt"}, paths(status.Staged))
		require.Equal(t, []string{"other.txt"}, paths(status.Untracked))
	})

	t.Run("absolute paths inside the repository", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup).WriteFile("abs.txt", "x\n")
		require.NoError(t, s.Engine.Stage(s.Scene.Repo.Path("abs.txt")))

		status, err := s.Engine.Status()
		require.NoError(t, err)
		require.Equal(t, []string{"abs.txt"}, paths(status.Staged))
	})

	t.Run("invalid paths", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)
		require.ErrorIs(t, s.Engine.Stage("missing.txt"), errors.ErrNotFound)
		require.ErrorIs(t, s.Engine.Stage("../escape.txt"), errors.ErrInvalidInput)
		require.ErrorIs(t, s.Engine.Stage(".git/config"), errors.ErrInvalidInput)
		require.ErrorIs(t, s.Engine.Stage(), errors.ErrInvalidInput)
	})

	t.Run("unstage restores HEAD entries", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup).
			WriteFile("1_test.txt", "changed").
			WriteFile("new.txt", "n\n")
		require.NoError(t, s.Engine.StageAll())

		require.NoError(t, s.Engine.Unstage("1_test.txt"))
		status, err := s.Engine.Status()
		require.NoError(t, err)
		require.Equal(t, []string{"new.txt"}, paths(status.Staged))
		require.Equal(t, []string{"1_test.txt"}, paths(status.Unstaged))

		require.NoError(t, s.Engine.UnstageAll())
		status, err = s.Engine.Status()
		require.NoError(t, err)
		require.Empty(t, status.Staged)
		require.Equal(t, []string{"new.txt"}, paths(status.Untracked))
	})
}
