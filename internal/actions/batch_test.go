package actions_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"reconcile.dev/reconcile/internal/actions"
	"reconcile.dev/reconcile/internal/engine"
	"reconcile.dev/reconcile/internal/errors"
	"reconcile.dev/reconcile/internal/tui"
	"reconcile.dev/reconcile/testhelpers"
	"reconcile.dev/reconcile/testhelpers/scenario"
)

func newBufferSplog(t *testing.T) (*tui.Splog, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	splog, err := tui.NewSplogWithConfig(&out, "", false)
	require.NoError(t, err)
	return splog, &out
}

func TestBatchCommitAction(t *testing.T) {
	scenario.Isolate(t)
	dirty := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	require.NoError(t, dirty.Repo.WriteFile("new.txt", "n\n"))
	clean := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

	t.Run("text summary", func(t *testing.T) {
		splog, out := newBufferSplog(t)
		result, err := actions.BatchCommitAction(context.Background(), actions.BatchCommitOptions{
			Paths:    []string{dirty.Dir, clean.Dir},
			Message:  "sweep",
			StageAll: true,
			Splog:    splog,
		})
		require.NoError(t, err)
		require.Len(t, result.Successes, 1)
		require.Len(t, result.Failures, 1)
		require.Contains(t, out.String(), "1 commit, 1 failure")
		require.Contains(t, out.String(), clean.Dir)
	})

	t.Run("json report", func(t *testing.T) {
		splog, out := newBufferSplog(t)
		_, err := actions.BatchCommitAction(context.Background(), actions.BatchCommitOptions{
			Paths:   []string{clean.Dir},
			Message: "again",
			JSON:    true,
			Splog:   splog,
		})
		require.NoError(t, err)

		var result engine.BatchCommitResult
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		require.Empty(t, result.Successes)
		require.Len(t, result.Failures, 1)
		require.Equal(t, clean.Dir, result.Failures[0].Path)
		require.Equal(t, "NothingToCommit", result.Failures[0].Kind)
		require.NotEmpty(t, result.Failures[0].Error)
	})

	t.Run("input validation", func(t *testing.T) {
		splog, _ := newBufferSplog(t)
		_, err := actions.BatchCommitAction(context.Background(), actions.BatchCommitOptions{Message: "m", Splog: splog})
		require.ErrorIs(t, err, errors.ErrInvalidInput)

		_, err = actions.BatchCommitAction(context.Background(), actions.BatchCommitOptions{Paths: []string{clean.Dir}, Splog: splog})
		require.ErrorIs(t, err, errors.ErrInvalidInput)
	})
}
