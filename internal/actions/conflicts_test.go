package actions_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"reconcile.dev/reconcile/internal/actions"
	"reconcile.dev/reconcile/internal/engine"
	"reconcile.dev/reconcile/internal/errors"
	"reconcile.dev/reconcile/testhelpers"
	"reconcile.dev/reconcile/testhelpers/scenario"
)

// mergeConflict stops a merge of feature into main with file.txt conflicted
func mergeConflict(t *testing.T) *scenario.Scenario {
	t.Helper()
	s := scenario.NewScenario(t, testhelpers.DivergedSceneSetup)
	err := actions.MergeAction(s.Context, actions.MergeOptions{Target: "feature"})
	require.ErrorIs(t, err, errors.ErrMergeConflict)
	s.OutputString()
	return s
}

func TestConflictsList(t *testing.T) {
	t.Run("no merge", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)
		require.NoError(t, actions.ConflictsListAction(s.Context, actions.ConflictsListOptions{}))
		require.Contains(t, s.OutputString(), "No merge in progress.")
	})

	t.Run("lists conflicted paths", func(t *testing.T) {
		s := mergeConflict(t)
		require.NoError(t, actions.ConflictsListAction(s.Context, actions.ConflictsListOptions{}))
		out := s.OutputString()
		require.Contains(t, out, "1 conflicted file:")
		require.Contains(t, out, "file.txt")
		require.Contains(t, out, "(both modified)")
	})

	t.Run("json", func(t *testing.T) {
		s := mergeConflict(t)
		require.NoError(t, actions.ConflictsListAction(s.Context, actions.ConflictsListOptions{JSON: true}))

		var state engine.MergeState
		require.NoError(t, json.Unmarshal([]byte(s.OutputString()), &state))
		require.True(t, state.InProgress)
		require.Equal(t, 1, state.ConflictCount)
		require.Equal(t, "feature change", *state.Conflicts[0].Theirs)
	})
}

func TestConflictsResolveAndComplete(t *testing.T) {
	s := mergeConflict(t)

	err := actions.ConflictsResolveAction(s.Context, actions.ConflictsResolveOptions{Path: "file.txt", Strategy: "sideways"})
	require.ErrorIs(t, err, errors.ErrInvalidInput)

	t.Run("missing strategy needs a prompt", func(t *testing.T) {
		err := actions.ConflictsResolveAction(s.Context, actions.ConflictsResolveOptions{Path: "file.txt"})
		require.ErrorIs(t, err, errors.ErrInvalidInput)
	})

	require.NoError(t, actions.ConflictsResolveAction(s.Context, actions.ConflictsResolveOptions{Path: "file.txt", Strategy: "theirs"}))
	out := s.OutputString()
	require.Contains(t, out, "Resolved file.txt using theirs")
	require.Contains(t, out, "All conflicts resolved.")
	testhelpers.ExpectFileContent(t, s.Scene.Repo, "file.txt", "line 1\nfeature change\nline 3\n")

	require.NoError(t, actions.ConflictsListAction(s.Context, actions.ConflictsListOptions{}))
	require.Contains(t, s.OutputString(), "All conflicts resolved.")

	require.NoError(t, actions.ConflictsCompleteAction(s.Context, actions.ConflictsCompleteOptions{}))
	require.Contains(t, s.OutputString(), "Merge committed as")

	history, err := s.Engine.History(1)
	require.NoError(t, err)
	require.Len(t, history[0].Parents, 2)
	require.Equal(t, "Merge branch 'feature'", history[0].Summary())
}

func TestConflictsShow(t *testing.T) {
	s := mergeConflict(t)
	require.NoError(t, actions.ConflictsShowAction(s.Context, "file.txt"))
	out := s.OutputString()
	require.Contains(t, out, "<<<<<<< HEAD\nmain change\n=======\nfeature change\n>>>>>>> feature\n")
}

func TestConflictsAbort(t *testing.T) {
	t.Run("without a merge", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)
		err := actions.ConflictsAbortAction(s.Context, actions.ConflictsAbortOptions{Force: true})
		require.ErrorIs(t, err, errors.ErrInvalidInput)
	})

	t.Run("confirmation is required without --force", func(t *testing.T) {
		s := mergeConflict(t)
		err := actions.ConflictsAbortAction(s.Context, actions.ConflictsAbortOptions{})
		require.ErrorIs(t, err, errors.ErrInvalidInput)

		state, err := s.Engine.MergeState()
		require.NoError(t, err)
		require.True(t, state.InProgress)
	})

	t.Run("force restores HEAD", func(t *testing.T) {
		s := mergeConflict(t)
		require.NoError(t, actions.ConflictsAbortAction(s.Context, actions.ConflictsAbortOptions{Force: true}))
		require.Contains(t, s.OutputString(), "Merge aborted.")
		testhelpers.ExpectFileContent(t, s.Scene.Repo, "file.txt", "line 1\nmain change\nline 3\n")
	})
}
