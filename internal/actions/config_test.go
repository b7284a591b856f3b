package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"reconcile.dev/reconcile/internal/actions"
	"reconcile.dev/reconcile/internal/config"
	"reconcile.dev/reconcile/internal/errors"
	"reconcile.dev/reconcile/testhelpers"
	"reconcile.dev/reconcile/testhelpers/scenario"
)

func TestConfigActions(t *testing.T) {
	s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)
	splog, out := newBufferSplog(t)
	repoOpts := actions.ConfigOptions{RepoRoot: s.Scene.Dir}
	userOpts := actions.ConfigOptions{Global: true}

	require.NoError(t, actions.ConfigSetAction(splog, repoOpts, "merge.conflictStyle", "diff3"))
	require.NoError(t, actions.ConfigSetAction(splog, userOpts, "pull.remote", "upstream"))
	out.Reset()

	require.NoError(t, actions.ConfigGetAction(splog, repoOpts, "merge.conflictStyle"))
	require.Equal(t, "diff3\n", out.String())

	cfg, err := config.Load(s.Scene.Dir)
	require.NoError(t, err)
	require.Equal(t, "diff3", cfg.ConflictStyle)
	require.Equal(t, "upstream", cfg.PullRemote)

	err = actions.ConfigGetAction(splog, repoOpts, "pull.remote")
	require.ErrorIs(t, err, errors.ErrNotFound, "user values are not visible in the repository file")

	require.ErrorIs(t, actions.ConfigGetAction(splog, repoOpts, "no.such"), errors.ErrInvalidInput)
	require.ErrorIs(t, actions.ConfigSetAction(splog, repoOpts, "batch.concurrency", "many"), errors.ErrInvalidInput)
}
