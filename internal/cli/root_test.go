package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"reconcile.dev/reconcile/internal/cli"
	"reconcile.dev/reconcile/testhelpers"
	"reconcile.dev/reconcile/testhelpers/scenario"
)

// run executes the command tree in-process against dir
func run(t *testing.T, dir string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := cli.NewRootCmd("test", "none", "unknown")
	root.SetArgs(append([]string{"--cwd", dir}, args...))
	root.SetOut(&out)
	root.SetErr(&errOut)
	code = cli.Execute(root, &errOut)
	return code, out.String(), errOut.String()
}

func TestStatusCommand(t *testing.T) {
	s := scenario.NewScenario(t, testhelpers.BasicSceneSetup).WriteFile("loose.txt", "l\n")

	code, out, _ := run(t, s.Scene.Dir, "status")
	require.Equal(t, 0, code)
	require.Contains(t, out, "Untracked files:")
	require.Contains(t, out, "loose.txt")
}

func TestMergeConflictFlow(t *testing.T) {
	s := scenario.NewScenario(t, testhelpers.DivergedSceneSetup)
	dir := s.Scene.Dir

	code, out, errOut := run(t, dir, "merge", "feature")
	require.Equal(t, 1, code)
	require.Contains(t, out, "Hit 1 conflict merging feature")
	require.Contains(t, errOut, "(MergeConflict)")

	code, out, _ = run(t, dir, "conflicts", "list")
	require.Equal(t, 0, code)
	require.Contains(t, out, "file.txt")

	code, _, errOut = run(t, dir, "commit", "-m", "too early")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "(MergeInProgress)")

	code, _, _ = run(t, dir, "conflicts", "resolve", "file.txt", "ours")
	require.Equal(t, 0, code)

	code, out, _ = run(t, dir, "conflicts", "complete", "Keep main")
	require.Equal(t, 0, code)
	require.Contains(t, out, "Merge committed as")

	code, out, _ = run(t, dir, "log", "-n", "1")
	require.Equal(t, 0, code)
	require.Contains(t, out, "Keep main")
	require.Contains(t, out, "[merge]")
}

func TestCommitCommands(t *testing.T) {
	s := scenario.NewScenario(t, testhelpers.BasicSceneSetup)
	dir := s.Scene.Dir

	code, _, errOut := run(t, dir, "commit", "-m", "nothing")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "(NothingToCommit)")

	s.WriteFile("a.txt", "a\n")
	code, _, _ = run(t, dir, "add", "a.txt")
	require.Equal(t, 0, code)
	code, _, _ = run(t, dir, "commit", "add", "a")
	require.Equal(t, 0, code)
	testhelpers.ExpectCommitCount(t, s.Scene.Repo, 2)

	code, _, _ = run(t, dir, "revoke-last")
	require.Equal(t, 0, code)
	testhelpers.ExpectCommitCount(t, s.Scene.Repo, 1)

	code, _, errOut = run(t, dir, "revoke-last")
	require.Equal(t, 1, code, "the root commit cannot be revoked")
	require.Contains(t, errOut, "(InvalidInput)")
}

func TestAheadBehindCommand(t *testing.T) {
	s := scenario.NewScenario(t, testhelpers.BasicSceneSetup).
		Commit("second").
		SetUpstream("main", "origin", "main", "main~1")

	code, out, _ := run(t, s.Scene.Dir, "ahead-behind", "main")
	require.Equal(t, 0, code)
	require.Equal(t, "1 0\n", out)
}

func TestBatchCommitCommand(t *testing.T) {
	scenario.Isolate(t)
	good := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	require.NoError(t, good.Repo.WriteFile("n.txt", "n\n"))
	clean := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

	code, out, _ := run(t, good.Dir, "batch-commit", good.Dir, clean.Dir, "-a", "-m", "sweep")
	require.Equal(t, 1, code, "any failure makes the command fail")
	require.Contains(t, out, "1 commit, 1 failure")
	testhelpers.ExpectCommitCount(t, good.Repo, 2)
}

func TestBatchCommitPositionalMessage(t *testing.T) {
	scenario.Isolate(t)
	first := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	second := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	require.NoError(t, first.Repo.WriteFile("a.txt", "a\n"))
	require.NoError(t, second.Repo.WriteFile("b.txt", "b\n"))

	code, out, _ := run(t, first.Dir, "batch-commit", first.Dir, second.Dir, "sweep both", "-a")
	require.Equal(t, 0, code)
	require.Contains(t, out, "2 commits")
	testhelpers.ExpectCommitCount(t, first.Repo, 2)
	testhelpers.ExpectCommitCount(t, second.Repo, 2)
	msgs := testhelpers.Must(second.Repo.ListCurrentBranchCommitMessages())
	require.Equal(t, "sweep both\n", msgs[0])

	code, _, errOut := run(t, first.Dir, "batch-commit", "only-a-message")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "(InvalidInput)")
}

func TestNotARepository(t *testing.T) {
	scenario.Isolate(t)
	code, _, errOut := run(t, t.TempDir(), "status")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "(NotFound)")
}
