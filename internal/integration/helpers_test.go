package integration

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"reconcile.dev/reconcile/internal/tui"
	"reconcile.dev/reconcile/testhelpers"
)

// =============================================================================
// Test Shell - A helper to make integration tests read like terminal sessions
// =============================================================================

// TestShell wraps a test scene and runs the reconcile binary inside it.
// Each shell carries its own environment, so shells are safe in parallel tests.
type TestShell struct {
	t          *testing.T
	scene      *testhelpers.Scene
	binaryPath string
	env        []string
	lastOutput string
	lastCode   int
}

// NewTestShell creates a shell around a scene built by setup
func NewTestShell(t *testing.T, binaryPath string, setup testhelpers.SceneSetup) *TestShell {
	t.Helper()
	scene := testhelpers.NewScene(t, setup)
	env := append(os.Environ(),
		tui.NonInteractiveEnv+"=1",
		"RECONCILE_LOG_FILE=off",
		"XDG_CONFIG_HOME="+t.TempDir(),
		"XDG_STATE_HOME="+t.TempDir(),
		"NO_COLOR=1",
	)
	return &TestShell{t: t, scene: scene, binaryPath: binaryPath, env: env}
}

// Scene returns the underlying test scene for direct access when needed.
func (s *TestShell) Scene() *testhelpers.Scene {
	return s.scene
}

// =============================================================================
// Command Execution
// =============================================================================

func (s *TestShell) exec(args string) error {
	cmd := exec.Command(s.binaryPath, splitArgs(args)...)
	cmd.Dir = s.scene.Dir
	cmd.Env = s.env
	output, err := cmd.CombinedOutput()
	s.lastOutput = string(output)
	s.lastCode = cmd.ProcessState.ExitCode()
	return err
}

// Run executes a reconcile command (e.g., "merge feature --no-ff") and requires success
func (s *TestShell) Run(args string) *TestShell {
	s.t.Helper()
	err := s.exec(args)
	require.NoError(s.t, err, "$ reconcile %s\n%s", args, s.lastOutput)
	return s
}

// RunExpectError executes a reconcile command and expects exit code 1
func (s *TestShell) RunExpectError(args string) *TestShell {
	s.t.Helper()
	err := s.exec(args)
	require.Error(s.t, err, "$ reconcile %s (expected error)\n%s", args, s.lastOutput)
	require.Equal(s.t, 1, s.lastCode)
	return s
}

// =============================================================================
// File Operations
// =============================================================================

// WriteFile writes a working tree file without staging it
func (s *TestShell) WriteFile(filename, content string) *TestShell {
	s.t.Helper()
	require.NoError(s.t, s.scene.Repo.WriteFile(filename, content), "failed to write file %s", filename)
	return s
}

// =============================================================================
// Output Inspection
// =============================================================================

// Output returns the last command's combined output
func (s *TestShell) Output() string {
	return s.lastOutput
}

// OutputContains asserts the last output contains the given string
func (s *TestShell) OutputContains(substr string) *TestShell {
	s.t.Helper()
	require.Contains(s.t, s.lastOutput, substr)
	return s
}

// OutputNotContains asserts the last output does NOT contain the given string
func (s *TestShell) OutputNotContains(substr string) *TestShell {
	s.t.Helper()
	require.NotContains(s.t, s.lastOutput, substr)
	return s
}

// =============================================================================
// Assertions
// =============================================================================

// OnBranch asserts we're on the expected branch
func (s *TestShell) OnBranch(expected string) *TestShell {
	s.t.Helper()
	testhelpers.ExpectCurrentBranch(s.t, s.scene.Repo, expected)
	return s
}

// FileContains asserts the exact content of a working tree file
func (s *TestShell) FileContains(path, expected string) *TestShell {
	s.t.Helper()
	testhelpers.ExpectFileContent(s.t, s.scene.Repo, path, expected)
	return s
}

// CommitCount asserts how many commits are reachable from HEAD
func (s *TestShell) CommitCount(expected int) *TestShell {
	s.t.Helper()
	testhelpers.ExpectCommitCount(s.t, s.scene.Repo, expected)
	return s
}

// Log prints a message (useful for documenting test steps)
func (s *TestShell) Log(msg string) *TestShell {
	s.t.Log(msg)
	return s
}

// =============================================================================
// Utility Functions
// =============================================================================

// splitArgs splits a command string into args, respecting quotes
func splitArgs(s string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)

	for _, r := range s {
		switch {
		case r == '"' || r == '\'':
			switch {
			case inQuote && r == quoteChar:
				inQuote = false
			case !inQuote:
				inQuote = true
				quoteChar = r
			default:
				current.WriteRune(r)
			}
		case r == ' ' && !inQuote:
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}
