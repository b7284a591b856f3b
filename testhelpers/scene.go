package testhelpers

import (
	"path/filepath"
	"testing"
)

// Scene represents a test scene with a temporary directory and Git repository.
type Scene struct {
	Dir  string
	Repo *GitRepo
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene with a temporary directory and Git repository.
// The directory is removed by t.Cleanup. Scenes never change the process
// working directory, so they are safe in parallel tests.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	// Resolve symlinks so paths compare equal to the ones go-git reports
	tmpDir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}
	dir := filepath.Join(tmpDir, "repo")

	repo, err := NewGitRepo(dir)
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:  dir,
		Repo: repo,
	}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// BasicSceneSetup is a setup function that creates a basic scene with a single commit.
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("1", "1")
}

// DivergedSceneSetup builds main and feature branches that both changed
// line 2 of file.txt after a shared base commit. HEAD is left on main.
func DivergedSceneSetup(scene *Scene) error {
	r := scene.Repo
	if _, err := r.CommitFile("file.txt", "line 1\nline 2\nline 3\n", "base"); err != nil {
		return err
	}
	if err := r.CreateBranch("feature"); err != nil {
		return err
	}
	if _, err := r.CommitFile("file.txt", "line 1\nmain change\nline 3\n", "main change"); err != nil {
		return err
	}
	if err := r.CheckoutBranch("feature"); err != nil {
		return err
	}
	if _, err := r.CommitFile("file.txt", "line 1\nfeature change\nline 3\n", "feature change"); err != nil {
		return err
	}
	return r.CheckoutBranch("main")
}

// FastForwardSceneSetup builds a feature branch one commit ahead of main.
// HEAD is left on main.
func FastForwardSceneSetup(scene *Scene) error {
	r := scene.Repo
	if _, err := r.CommitFile("file.txt", "base\n", "base"); err != nil {
		return err
	}
	if err := r.CreateAndCheckoutBranch("feature"); err != nil {
		return err
	}
	if _, err := r.CommitFile("feature.txt", "feature\n", "add feature"); err != nil {
		return err
	}
	return r.CheckoutBranch("main")
}
