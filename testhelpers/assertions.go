// Package testhelpers provides testing utilities for reconcile,
// including a scene system, Git repository helpers, and custom assertions.
package testhelpers

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. This is useful for test setup code
// where errors are not expected and should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectBranches asserts that the repository has exactly the expected branches.
func ExpectBranches(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	branches, err := repo.GetLocalBranches()
	require.NoError(t, err, "Failed to list branches")

	want := append([]string(nil), expected...)
	sort.Strings(want)
	require.Equal(t, want, branches, "Branches do not match")
}

// ExpectBranchesString asserts the branches as a comma-separated sorted string.
func ExpectBranchesString(t *testing.T, repo *GitRepo, expected string) {
	t.Helper()

	branches, err := repo.GetLocalBranches()
	require.NoError(t, err, "Failed to list branches")
	require.Equal(t, expected, strings.Join(branches, ", "))
}

// ExpectCurrentBranch asserts which branch HEAD points at.
func ExpectCurrentBranch(t *testing.T, repo *GitRepo, expected string) {
	t.Helper()

	branch, err := repo.CurrentBranchName()
	require.NoError(t, err)
	require.Equal(t, expected, branch)
}

// ExpectFileContent asserts the working tree content of a path.
func ExpectFileContent(t *testing.T, repo *GitRepo, path, expected string) {
	t.Helper()

	content, err := repo.ReadFile(path)
	require.NoError(t, err, "Failed to read %s", path)
	require.Equal(t, expected, content)
}

// ExpectCommitCount asserts how many commits are reachable from HEAD.
func ExpectCommitCount(t *testing.T, repo *GitRepo, expected int) {
	t.Helper()

	messages, err := repo.ListCurrentBranchCommitMessages()
	require.NoError(t, err)
	require.Len(t, messages, expected)
}
