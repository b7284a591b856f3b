// Package scenario provides a high-level test scenario that combines a Scene,
// an Engine, and a runtime Context to provide a terse API for integration tests.
package scenario

import (
	"bytes"
	"context"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/require"

	"reconcile.dev/reconcile/internal/engine"
	"reconcile.dev/reconcile/internal/runtime"
	"reconcile.dev/reconcile/internal/tui"
	"reconcile.dev/reconcile/testhelpers"
)

// Scenario represents a high-level test scenario that combines a Scene,
// an Engine, and a runtime Context to provide a terse API for integration tests.
type Scenario struct {
	T       *testing.T
	Scene   *testhelpers.Scene
	Engine  engine.Engine
	Context *runtime.Context
	// Output captures everything the context's splog printed
	Output *bytes.Buffer
}

// Isolate points user-level state (XDG dirs, log file) at temporary
// locations and disables prompts.
// NOTE: uses t.Setenv, so callers cannot be parallel tests.
func Isolate(t *testing.T) {
	t.Helper()
	t.Setenv(tui.NonInteractiveEnv, "1")
	t.Setenv("RECONCILE_LOG_FILE", "off")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)
}

// NewScenario creates a new Scenario with an optional setup function.
// NOTE: This function is NOT safe for parallel tests as it uses t.Setenv.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()

	Isolate(t)
	scene := testhelpers.NewScene(t, setup)

	s := &Scenario{
		T:      t,
		Scene:  scene,
		Output: &bytes.Buffer{},
	}
	return s.Rebuild()
}

// Rebuild reopens the repository and reloads configuration.
func (s *Scenario) Rebuild() *Scenario {
	s.T.Helper()
	splog, err := tui.NewSplogWithConfig(s.Output, "", false)
	require.NoError(s.T, err)

	ctx, err := runtime.GetContext(context.Background(), s.Scene.Dir, splog)
	require.NoError(s.T, err)

	s.Context = ctx
	s.Engine = ctx.Engine
	return s
}

// WithInitialCommit creates an initial commit on the main branch.
func (s *Scenario) WithInitialCommit() *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CreateChangeAndCommit("initial", "init")
	require.NoError(s.T, err)
	return s
}

// WithUncommittedChange creates an unstaged file in the repository.
func (s *Scenario) WithUncommittedChange(name string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CreateChange("unstaged content", name, true)
	require.NoError(s.T, err)
	return s
}

// WriteFile writes a working tree file.
func (s *Scenario) WriteFile(path, content string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.WriteFile(path, content))
	return s
}

// Stage adds paths to the index.
func (s *Scenario) Stage(paths ...string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.Stage(paths...))
	return s
}

// Commit creates a commit with a change named after the message.
func (s *Scenario) Commit(message string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CreateChangeAndCommit(message, message)
	require.NoError(s.T, err)
	return s
}

// CommitFile commits content at path.
func (s *Scenario) CommitFile(path, content, message string) *Scenario {
	s.T.Helper()
	_, err := s.Scene.Repo.CommitFile(path, content, message)
	require.NoError(s.T, err)
	return s
}

// CreateBranch creates and checks out a new branch.
func (s *Scenario) CreateBranch(name string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CreateAndCheckoutBranch(name)
	require.NoError(s.T, err)
	return s
}

// Checkout checks out a branch.
func (s *Scenario) Checkout(branch string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CheckoutBranch(branch)
	require.NoError(s.T, err)
	return s
}

// SetUpstream configures branch to track remote/remoteBranch at rev.
func (s *Scenario) SetUpstream(branch, remote, remoteBranch, rev string) *Scenario {
	s.T.Helper()
	require.NoError(s.T, s.Scene.Repo.SetUpstream(branch, remote, remoteBranch))
	require.NoError(s.T, s.Scene.Repo.SetRemoteRef(remote, remoteBranch, rev))
	return s
}

// OutputString returns what has been printed so far and clears the buffer.
func (s *Scenario) OutputString() string {
	out := s.Output.String()
	s.Output.Reset()
	return out
}
