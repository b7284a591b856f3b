package actions_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"reconcile.dev/reconcile/internal/actions"
	"reconcile.dev/reconcile/internal/engine"
	"reconcile.dev/reconcile/testhelpers"
	"reconcile.dev/reconcile/testhelpers/scenario"
)

func TestStatusAction(t *testing.T) {
	t.Run("clean tree", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)

		require.NoError(t, actions.StatusAction(s.Context, actions.StatusOptions{}))
		out := s.OutputString()
		require.Contains(t, out, "On branch main")
		require.Contains(t, out, "nothing to commit, working tree clean")
	})

	t.Run("lists every section", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup).
			WriteFile("staged.txt", "s\n").
			Stage("staged.txt").
			WriteFile("1_test.txt", "changed\n").
			WriteFile("loose.txt", "l\n")

		require.NoError(t, actions.StatusAction(s.Context, actions.StatusOptions{}))
		out := s.OutputString()
		require.Contains(t, out, "Changes to be committed:")
		require.Contains(t, out, "staged.txt")
		require.Contains(t, out, "Changes not staged for commit:")
		require.Contains(t, out, "1_test.txt")
		require.Contains(t, out, "Untracked files:")
		require.Contains(t, out, "loose.txt")
		require.NotContains(t, out, "Conflicted:")
	})

	t.Run("json output", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup).WriteFile("loose.txt", "l\n")

		require.NoError(t, actions.StatusAction(s.Context, actions.StatusOptions{JSON: true}))
		var status engine.RepoStatus
		require.NoError(t, json.Unmarshal([]byte(s.OutputString()), &status))
		require.Equal(t, []engine.StatusItem{{Path: "loose.txt", Status: engine.StatusUntracked}}, status.Untracked)
	})

	t.Run("upstream divergence in the header", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup).
			Commit("second").
			Commit("third").
			SetUpstream("main", "origin", "main", "main~2")

		require.NoError(t, actions.StatusAction(s.Context, actions.StatusOptions{}))
		require.Contains(t, s.OutputString(), "Ahead of origin/main by 2 commits, behind by 0 commits")
	})
}

func TestBranchInfoAction(t *testing.T) {
	s := scenario.NewScenario(t, testhelpers.BasicSceneSetup).
		Commit("second").
		SetUpstream("main", "origin", "main", "main~1")

	require.NoError(t, actions.BranchInfoAction(s.Context, actions.BranchInfoOptions{JSON: true}))
	var info engine.BranchInfo
	require.NoError(t, json.Unmarshal([]byte(s.OutputString()), &info))
	require.Equal(t, engine.BranchInfo{
		Current:     "main",
		Ahead:       1,
		Upstream:    "origin/main",
		IsPublished: true,
		NeedPush:    true,
	}, info)
}

func TestAheadBehindAction(t *testing.T) {
	s := scenario.NewScenario(t, testhelpers.BasicSceneSetup).
		Commit("second").
		SetUpstream("main", "origin", "main", "main~1")

	require.NoError(t, actions.AheadBehindAction(s.Context, "main"))
	require.Equal(t, "1 0\n", s.OutputString())

	require.NoError(t, s.Engine.CreateBranch("topic", ""))
	require.NoError(t, actions.AheadBehindAction(s.Context, "topic"))
	require.Equal(t, "0 0\n", s.OutputString(), "no upstream")
}
