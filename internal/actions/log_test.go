package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"reconcile.dev/reconcile/internal/actions"
	"reconcile.dev/reconcile/testhelpers"
	"reconcile.dev/reconcile/testhelpers/scenario"
)

func TestLogAction(t *testing.T) {
	t.Run("unborn", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)
		require.NoError(t, actions.LogAction(s.Context, actions.LogOptions{}))
		require.Contains(t, s.OutputString(), "No commits yet.")
	})

	t.Run("marks merges and refs", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.FastForwardSceneSetup)
		require.NoError(t, actions.MergeAction(s.Context, actions.MergeOptions{Target: "feature", NoFastForward: true}))
		s.OutputString()

		require.NoError(t, actions.LogAction(s.Context, actions.LogOptions{Limit: 2}))
		out := s.OutputString()
		require.Contains(t, out, "(main) Merge branch 'feature' [merge]")
		require.Contains(t, out, "(feature) add feature")
		require.Contains(t, out, testhelpers.TestUserName+" <"+testhelpers.TestUserEmail+">")
	})
}

func TestDiffAction(t *testing.T) {
	s := scenario.NewScenario(t, nil).
		CommitFile("f.txt", "one\n", "base").
		WriteFile("f.txt", "two\n").
		Stage("f.txt").
		WriteFile("f.txt", "three\n")

	require.NoError(t, actions.DiffAction(s.Context, actions.DiffOptions{Path: "f.txt"}))
	out := s.OutputString()
	require.Contains(t, out, "Staged:")
	require.Contains(t, out, "+two\n")
	require.Contains(t, out, "Unstaged:")
	require.Contains(t, out, "+three\n")

	require.NoError(t, actions.DiffAction(s.Context, actions.DiffOptions{Path: "f.txt", Staged: true}))
	out = s.OutputString()
	require.NotContains(t, out, "+three")
	require.NotContains(t, out, "Staged:")
}

func TestSummaryAction(t *testing.T) {
	s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)
	require.NoError(t, actions.SummaryAction(s.Context))
	require.Contains(t, s.OutputString(), "Branch: main\n")
}
