package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"reconcile.dev/reconcile/internal/engine"
	"reconcile.dev/reconcile/internal/git"
	"reconcile.dev/reconcile/testhelpers"
)

type recordingProgress struct {
	mu       sync.Mutex
	started  map[int]string
	finished map[int]error
}

func newRecordingProgress() *recordingProgress {
	return &recordingProgress{started: map[int]string{}, finished: map[int]error{}}
}

func (p *recordingProgress) RepoStarted(index int, path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started[index] = path
}

func (p *recordingProgress) RepoFinished(index int, _ string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finished[index] = err
}

func TestBatchCommit(t *testing.T) {
	withStaged := func(name string) *testhelpers.Scene {
		return testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			if err := s.Repo.CreateChangeAndCommit("initial", "init"); err != nil {
				return err
			}
			return s.Repo.CreateChange(name, name, false)
		})
	}

	good1 := withStaged("one")
	clean := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	good2 := withStaged("two")
	missing := filepath.Join(t.TempDir(), "not-a-repo")

	repoPaths := []string{good1.Dir, clean.Dir, missing, good2.Dir}
	progress := newRecordingProgress()
	result := engine.BatchCommit(context.Background(), repoPaths, "batch message", engine.BatchOptions{
		Concurrency: 2,
		Progress:    progress,
	})

	require.Len(t, result.Successes, 2)
	require.Equal(t, good1.Dir, result.Successes[0].Path)
	require.Equal(t, good2.Dir, result.Successes[1].Path)
	for _, success := range result.Successes {
		require.Len(t, success.CommitID, engine.ShortIDLength)
	}

	require.Len(t, result.Failures, 2)
	require.Equal(t, clean.Dir, result.Failures[0].Path)
	require.Equal(t, "NothingToCommit", result.Failures[0].Kind)
	require.Equal(t, missing, result.Failures[1].Path)
	require.Equal(t, "NotFound", result.Failures[1].Kind)

	require.Len(t, progress.started, 4)
	require.Len(t, progress.finished, 4)
	require.NoError(t, progress.finished[0])
	require.Error(t, progress.finished[1])

	t.Run("successful repositories hold the new commit", func(t *testing.T) {
		msgs := testhelpers.Must(good1.Repo.ListCurrentBranchCommitMessages())
		require.Equal(t, "batch message\n", msgs[0])
	})

	t.Run("failed repositories are untouched", func(t *testing.T) {
		testhelpers.ExpectCommitCount(t, clean.Repo, 1)
	})
}

func TestBatchCommitStageAll(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	require.NoError(t, scene.Repo.WriteFile("loose.txt", "loose\n"))

	result := engine.BatchCommit(context.Background(), []string{scene.Dir}, "stage everything", engine.BatchOptions{
		StageAll: true,
	})
	require.Empty(t, result.Failures)
	require.Len(t, result.Successes, 1)

	repo := testhelpers.Must(git.Open(scene.Dir))
	head := testhelpers.Must(repo.HeadCommit())
	tree := testhelpers.Must(repo.CommitTree(head))
	require.Contains(t, tree, "loose.txt")
}

func TestBatchCommitCanceled(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := engine.BatchCommit(ctx, []string{scene.Dir}, "never", engine.BatchOptions{})
	require.Empty(t, result.Successes)
	require.Len(t, result.Failures, 1)
	require.Equal(t, "Unknown", result.Failures[0].Kind)
}

func stagedScene(t *testing.T, name string) *testhelpers.Scene {
	t.Helper()
	return testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
		if err := s.Repo.CreateChangeAndCommit("initial", "init"); err != nil {
			return err
		}
		return s.Repo.CreateChange(name, name, false)
	})
}

func TestBatchCommitSameRepositoryTwice(t *testing.T) {
	scene := stagedScene(t, "once")
	require.NoError(t, os.MkdirAll(filepath.Join(scene.Dir, "sub"), 0o755))

	repoPaths := []string{scene.Dir, scene.Dir + string(filepath.Separator) + ".", filepath.Join(scene.Dir, "sub")}
	result := engine.BatchCommit(context.Background(), repoPaths, "only once", engine.BatchOptions{Concurrency: 3})

	require.Len(t, result.Successes, 1)
	require.Equal(t, scene.Dir, result.Successes[0].Path)
	require.Len(t, result.Failures, 2)
	for _, failure := range result.Failures {
		require.Equal(t, "InvalidInput", failure.Kind)
		require.Contains(t, failure.Error, "same repository")
	}
	testhelpers.ExpectCommitCount(t, scene.Repo, 2)
}

type panickingProgress struct {
	*recordingProgress
	panicOn int
}

func (p *panickingProgress) RepoStarted(index int, path string) {
	if index == p.panicOn {
		panic("progress exploded")
	}
	p.recordingProgress.RepoStarted(index, path)
}

func TestBatchCommitRecoversFromPanics(t *testing.T) {
	first := stagedScene(t, "first")
	second := stagedScene(t, "second")

	result := engine.BatchCommit(context.Background(), []string{first.Dir, second.Dir}, "survives", engine.BatchOptions{
		Concurrency: 1,
		Progress:    &panickingProgress{recordingProgress: newRecordingProgress(), panicOn: 0},
	})

	require.Len(t, result.Failures, 1)
	require.Equal(t, first.Dir, result.Failures[0].Path)
	require.Equal(t, "Unknown", result.Failures[0].Kind)
	require.Contains(t, result.Failures[0].Error, "progress exploded")

	require.Len(t, result.Successes, 1)
	require.Equal(t, second.Dir, result.Successes[0].Path)
	testhelpers.ExpectCommitCount(t, first.Repo, 1)
	testhelpers.ExpectCommitCount(t, second.Repo, 2)
}
