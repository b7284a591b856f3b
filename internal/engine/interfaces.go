package engine

import (
	"context"
)

// StatusReader provides read-only queries over HEAD, the index and the working tree
type StatusReader interface {
	Status() (*RepoStatus, error)
	BranchInfo() (*BranchInfo, error)
	AheadBehind(branch string) (ahead, behind int, err error)
	History(limit int) ([]CommitInfo, error)
	FileDiff(path string) (*FileDiff, error)
	LocalBranches() ([]LocalBranch, error)
}

// MergeExecutor classifies and performs merges
type MergeExecutor interface {
	Analyze(target string) (MergeAnalysis, error)
	Merge(target string, opts MergeOptions) (*MergeResult, error)
	Pull(ctx context.Context, fetcher Fetcher, remote, branch string, strategy PullStrategy) (*MergeResult, error)
}

// ConflictRegistry inspects and resolves an in-progress merge
type ConflictRegistry interface {
	MergeState() (*MergeState, error)
	Resolve(path string, resolution Resolution) error
	ConflictDiff(path string) (string, error)
	CompleteMerge(message *string) (string, error)
	AbortMerge() error
}

// CommitWriter stages paths and writes commits
type CommitWriter interface {
	Commit(message string) (string, error)
	RevokeLastCommit() error
	Stage(paths ...string) error
	StageAll() error
	Unstage(paths ...string) error
	UnstageAll() error
}

// BranchManager creates, switches, renames and deletes local branches
type BranchManager interface {
	CreateBranch(name, base string) error
	SwitchBranch(name string) error
	DeleteBranch(name string) error
	RenameBranch(oldName, newName string) error
}

// Engine is the full set of operations on one repository
type Engine interface {
	StatusReader
	MergeExecutor
	ConflictRegistry
	CommitWriter
	BranchManager

	// Root returns the working tree root
	Root() string
}

// Fetcher updates the remote-tracking reference for remote/branch.
// Network transport and credentials live behind this interface.
type Fetcher interface {
	Fetch(ctx context.Context, remote, branch string) error
}
