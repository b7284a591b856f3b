package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"reconcile.dev/reconcile/internal/actions"
	"reconcile.dev/reconcile/internal/errors"
	"reconcile.dev/reconcile/testhelpers"
	"reconcile.dev/reconcile/testhelpers/scenario"
)

func TestMergeAction(t *testing.T) {
	t.Run("fast-forward", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.FastForwardSceneSetup)

		require.NoError(t, actions.MergeAction(s.Context, actions.MergeOptions{Target: "feature"}))
		require.Contains(t, s.OutputString(), "Fast-forwarded to")
		require.Equal(t,
			testhelpers.Must(s.Scene.Repo.GetRevision("feature")),
			testhelpers.Must(s.Scene.Repo.GetRevision("main")))
	})

	t.Run("already up to date", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.FastForwardSceneSetup).Checkout("feature")

		require.NoError(t, actions.MergeAction(s.Context, actions.MergeOptions{Target: "main"}))
		require.Contains(t, s.OutputString(), "Already up to date.")
	})

	t.Run("no-ff records a merge commit", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.FastForwardSceneSetup)

		require.NoError(t, actions.MergeAction(s.Context, actions.MergeOptions{Target: "feature", NoFastForward: true}))
		require.Contains(t, s.OutputString(), "Merged feature in")
	})

	t.Run("conflicts are reported and returned", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.DivergedSceneSetup)

		err := actions.MergeAction(s.Context, actions.MergeOptions{Target: "feature"})
		require.ErrorIs(t, err, errors.ErrMergeConflict)
		require.Equal(t, "MergeConflict", errors.Kind(err))

		out := s.OutputString()
		require.Contains(t, out, "Hit 1 conflict merging feature")
		require.Contains(t, out, "file.txt")
		require.Contains(t, out, "reconcile conflicts complete")
	})

	t.Run("ff-only and no-ff conflict", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.FastForwardSceneSetup)
		err := actions.MergeAction(s.Context, actions.MergeOptions{Target: "feature", FastForwardOnly: true, NoFastForward: true})
		require.ErrorIs(t, err, errors.ErrInvalidInput)
	})
}

func TestPullAction(t *testing.T) {
	t.Run("rebase is unsupported", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)
		err := actions.PullAction(s.Context, actions.PullOptions{Rebase: true})
		require.ErrorIs(t, err, errors.ErrUnsupportedOperation)
	})

	t.Run("fetches from a local remote and fast-forwards", func(t *testing.T) {
		s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)
		_, err := s.Scene.Repo.CreateBareRemote("origin")
		require.NoError(t, err)
		require.NoError(t, s.Scene.Repo.PushBranch("origin", "main"))
		require.NoError(t, s.Scene.Repo.SetUpstream("main", "origin", "main"))

		// Advance the remote, then move local main back behind it
		s.CommitFile("later.txt", "later\n", "later")
		require.NoError(t, s.Scene.Repo.PushBranch("origin", "main"))
		remoteTip := testhelpers.Must(s.Scene.Repo.GetRevision("main"))
		require.NoError(t, s.Engine.RevokeLastCommit())
		require.NoError(t, s.Engine.UnstageAll())
		require.NoError(t, s.Scene.Repo.DeleteFile("later.txt"))

		require.NoError(t, actions.PullAction(s.Context, actions.PullOptions{}))
		require.Contains(t, s.OutputString(), "Fast-forwarded to")
		require.Equal(t, remoteTip, testhelpers.Must(s.Scene.Repo.GetRevision("main")))
	})
}
