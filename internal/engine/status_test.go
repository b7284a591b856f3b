package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"reconcile.dev/reconcile/internal/engine"
	"reconcile.dev/reconcile/testhelpers"
	"reconcile.dev/reconcile/testhelpers/scenario"
)

func paths(items []engine.StatusItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Path)
	}
	return out
}

func TestStatus(t *testing.T) {
	t.Run("clean after commit", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)

		status, err := s.Engine.Status()
		require.NoError(t, err)
		require.True(t, status.IsClean())
		require.False(t, status.HasChanges())
	})

	t.Run("path staged and then modified appears in both lists", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup).
			WriteFile("a.txt", "one\n").
			Stage("a.txt").
			WriteFile("a.txt", "two\n")

		status, err := s.Engine.Status()
		require.NoError(t, err)
		require.Equal(t, []engine.StatusItem{{Path: "a.txt", Status: engine.StatusAdded}}, status.Staged)
		require.Equal(t, []engine.StatusItem{{Path: "a.txt", Status: engine.StatusModified}}, status.Unstaged)
		require.Empty(t, status.Untracked)
		require.Equal(t, 2, status.TotalCount())
	})

	t.Run("untracked files honor gitignore", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup).
			WriteFile(".gitignore", "*.tmp\n").
			WriteFile("notes.txt", "n\n").
			WriteFile("scratch.tmp", "x\n")

		status, err := s.Engine.Status()
		require.NoError(t, err)
		require.Equal(t, []string{".gitignore", "notes.txt"}, paths(status.Untracked))
		require.True(t, status.IsClean(), "untracked files do not make the tree dirty")
	})

	t.Run("deleted files", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Scene.Repo.DeleteFile("1_test.txt"))

		status, err := s.Engine.Status()
		require.NoError(t, err)
		require.Equal(t, []engine.StatusItem{{Path: "1_test.txt", Status: engine.StatusDeleted}}, status.Unstaged)

		require.NoError(t, s.Engine.StageAll())
		status, err = s.Engine.Status()
		require.NoError(t, err)
		require.Empty(t, status.Unstaged)
		require.Equal(t, []engine.StatusItem{{Path: "1_test.txt", Status: engine.StatusDeleted}}, status.Staged)
	})

	t.Run("staged rename is detected", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).CommitFile("old.txt", "same content\n", "add old")
		require.NoError(t, s.Scene.Repo.DeleteFile("old.txt"))
		s.WriteFile("new.txt", "same content\n")
		require.NoError(t, s.Engine.StageAll())

		status, err := s.Engine.Status()
		require.NoError(t, err)
		require.Equal(t, []engine.StatusItem{{Path: "new.txt", Status: engine.StatusRenamed, OldPath: "old.txt"}}, status.Staged)
	})

	t.Run("unborn branch lists new files as untracked", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).WriteFile("first.txt", "1\n")

		status, err := s.Engine.Status()
		require.NoError(t, err)
		require.Equal(t, []string{"first.txt"}, paths(status.Untracked))
		require.Empty(t, status.Staged)
	})

	t.Run("repeated calls agree", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup).WithUncommittedChange("wip")

		first, err := s.Engine.Status()
		require.NoError(t, err)
		second, err := s.Engine.Status()
		require.NoError(t, err)
		require.Equal(t, first, second)
	})
}

func TestBranchInfo(t *testing.T) {
	t.Run("no upstream", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)

		info, err := s.Engine.BranchInfo()
		require.NoError(t, err)
		require.Equal(t, "main", info.Current)
		require.False(t, info.IsPublished)
		require.Empty(t, info.Upstream)
	})

	t.Run("ahead of upstream", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup).
			Commit("second").
			Commit("third").
			SetUpstream("main", "origin", "main", "main~2")

		info, err := s.Engine.BranchInfo()
		require.NoError(t, err)
		require.Equal(t, "origin/main", info.Upstream)
		require.True(t, info.IsPublished)
		require.Equal(t, 2, info.Ahead)
		require.Equal(t, 0, info.Behind)
		require.True(t, info.NeedPush)
	})

	t.Run("configured upstream without tracking ref is unpublished", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Scene.Repo.SetUpstream("main", "origin", "main"))

		info, err := s.Engine.BranchInfo()
		require.NoError(t, err)
		require.Equal(t, "origin/main", info.Upstream)
		require.False(t, info.IsPublished)
		require.Zero(t, info.Ahead)
	})

	t.Run("detached HEAD", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)
		require.NoError(t, s.Scene.Repo.CheckoutDetached("main"))

		info, err := s.Engine.BranchInfo()
		require.NoError(t, err)
		require.Equal(t, "HEAD", info.Current)
	})
}

func TestAheadBehind(t *testing.T) {
	s := scenario.NewScenario(t, testhelpers.DivergedSceneSetup).
		SetUpstream("main", "origin", "main", "feature")

	ahead, behind, err := s.Engine.AheadBehind("main")
	require.NoError(t, err)
	require.Equal(t, 1, ahead)
	require.Equal(t, 1, behind)

	t.Run("counts swap when the roles swap", func(t *testing.T) {
		s.SetUpstream("feature", "origin", "feature", "main")
		a, b, err := s.Engine.AheadBehind("feature")
		require.NoError(t, err)
		require.Equal(t, behind, a)
		require.Equal(t, ahead, b)
	})

	t.Run("no upstream reports zero", func(t *testing.T) {
		require.NoError(t, s.Scene.Repo.CreateBranch("lonely"))
		a, b, err := s.Engine.AheadBehind("lonely")
		require.NoError(t, err)
		require.Zero(t, a)
		require.Zero(t, b)
	})

	t.Run("unknown branch", func(t *testing.T) {
		_, _, err := s.Engine.AheadBehind("nope")
		require.Error(t, err)
	})
}
