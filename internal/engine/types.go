package engine

import (
	"time"
)

// FileStatus is the kind of change recorded for a path
type FileStatus string

const (
	StatusModified   FileStatus = "modified"
	StatusAdded      FileStatus = "added"
	StatusDeleted    FileStatus = "deleted"
	StatusRenamed    FileStatus = "renamed"
	StatusTypeChange FileStatus = "typechange"
	StatusUnmerged   FileStatus = "unmerged"
	StatusUntracked  FileStatus = "untracked"
)

// StatusItem is one path in one status category
type StatusItem struct {
	Path    string     `json:"path"`
	Status  FileStatus `json:"status"`
	OldPath string     `json:"oldPath,omitempty"`
}

// RepoStatus partitions changed paths. A path may appear in both Staged and
// Unstaged; conflicted paths appear only in Conflicted.
type RepoStatus struct {
	Staged     []StatusItem `json:"staged"`
	Unstaged   []StatusItem `json:"unstaged"`
	Untracked  []StatusItem `json:"untracked"`
	Conflicted []StatusItem `json:"conflicted"`
}

// TotalCount returns the number of items across all categories
func (s *RepoStatus) TotalCount() int {
	return len(s.Staged) + len(s.Unstaged) + len(s.Untracked) + len(s.Conflicted)
}

// HasChanges reports whether anything differs from HEAD
func (s *RepoStatus) HasChanges() bool {
	return s.TotalCount() > 0
}

// IsClean reports whether nothing is staged, modified or conflicted.
// Untracked files do not count.
func (s *RepoStatus) IsClean() bool {
	return len(s.Staged) == 0 && len(s.Unstaged) == 0 && len(s.Conflicted) == 0
}

// BranchInfo describes the current branch and its upstream
type BranchInfo struct {
	Current     string `json:"current"`
	Ahead       int    `json:"ahead"`
	Behind      int    `json:"behind"`
	Upstream    string `json:"upstream,omitempty"`
	IsPublished bool   `json:"isPublished"`
	NeedPush    bool   `json:"needPush"`
}

// LocalBranch is a local branch and its tracking configuration
type LocalBranch struct {
	Name     string `json:"name"`
	IsHead   bool   `json:"isHead"`
	Upstream string `json:"upstream,omitempty"`
}

// MergeAnalysis classifies how HEAD relates to a merge target
type MergeAnalysis int

const (
	// AnalysisUpToDate means the target is already reachable from HEAD
	AnalysisUpToDate MergeAnalysis = iota
	// AnalysisFastForward means HEAD is an ancestor of the target
	AnalysisFastForward
	// AnalysisNormal means the histories diverged
	AnalysisNormal
	// AnalysisUnborn means HEAD has no commits yet
	AnalysisUnborn
)

func (a MergeAnalysis) String() string {
	switch a {
	case AnalysisUpToDate:
		return "up-to-date"
	case AnalysisFastForward:
		return "fast-forward"
	case AnalysisNormal:
		return "normal"
	case AnalysisUnborn:
		return "unborn"
	default:
		return "unknown"
	}
}

// MergeOptions tunes Merge
type MergeOptions struct {
	// Message overrides the synthesized merge message
	Message string
	// FastForwardOnly refuses anything but a fast-forward
	FastForwardOnly bool
	// NoFastForward records a merge commit even when a fast-forward is possible
	NoFastForward bool
}

// MergeResult is the outcome of Merge or Pull. A conflicted merge is a
// result, not an error.
type MergeResult struct {
	Analysis MergeAnalysis `json:"analysis"`
	// Head is the commit HEAD points at after the operation
	Head string `json:"head,omitempty"`
	// MergeCommit is set when a merge commit was created
	MergeCommit     string   `json:"mergeCommit,omitempty"`
	Conflicted      bool     `json:"conflicted"`
	ConflictCount   int      `json:"conflictCount"`
	ConflictedPaths []string `json:"conflictedPaths,omitempty"`
}

// PullStrategy selects how fetched commits are integrated
type PullStrategy int

const (
	PullMerge PullStrategy = iota
	PullRebase
)

// ConflictEntry describes one conflicted path
type ConflictEntry struct {
	Path       string  `json:"path"`
	Ours       *string `json:"ours,omitempty"`
	Theirs     *string `json:"theirs,omitempty"`
	Ancestor   *string `json:"ancestor,omitempty"`
	HasMarkers bool    `json:"hasMarkers"`
	Stages     []int   `json:"stages"`
}

// MergeState reports an in-progress merge
type MergeState struct {
	// InProgress is true while any path is still multi-staged
	InProgress    bool            `json:"inProgress"`
	ConflictCount int             `json:"conflictCount"`
	Conflicts     []ConflictEntry `json:"conflicts"`
	// Pending is true while a merge target is recorded, even with every conflict resolved
	Pending   bool   `json:"pending"`
	MergeHead string `json:"mergeHead,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Resolution selects which version of a conflicted path to keep
type Resolution string

const (
	ResolveOurs     Resolution = "ours"
	ResolveTheirs   Resolution = "theirs"
	ResolveManual   Resolution = "manual"
	ResolveAncestor Resolution = "ancestor"
)

// ParseResolution accepts ours/current, theirs/incoming, manual and ancestor/base
func ParseResolution(s string) (Resolution, bool) {
	switch s {
	case "ours", "current":
		return ResolveOurs, true
	case "theirs", "incoming":
		return ResolveTheirs, true
	case "manual":
		return ResolveManual, true
	case "ancestor", "base":
		return ResolveAncestor, true
	}
	return "", false
}

// CommitInfo summarizes a commit for display
type CommitInfo struct {
	ID        string    `json:"id"`
	ShortID   string    `json:"shortId"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
	Parents   []string  `json:"parents"`
	Refs      []string  `json:"refs,omitempty"`
}

// Summary returns the first line of the message
func (c CommitInfo) Summary() string {
	for i, r := range c.Message {
		if r == '\n' {
			return c.Message[:i]
		}
	}
	return c.Message
}

// FileDiff is the staged and unstaged diff of one path
type FileDiff struct {
	Path     string `json:"path"`
	Staged   string `json:"staged,omitempty"`
	Unstaged string `json:"unstaged,omitempty"`
}

// BatchSuccess records a repository that committed
type BatchSuccess struct {
	Path     string `json:"path"`
	CommitID string `json:"commitId"`
}

func (s BatchSuccess) String() string {
	return s.Path + " (" + s.CommitID + ")"
}

// BatchFailure records a repository that did not commit
type BatchFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// BatchCommitResult aggregates per-repository outcomes in input order
type BatchCommitResult struct {
	Successes []BatchSuccess `json:"successes"`
	Failures  []BatchFailure `json:"failures"`
}

// ShortIDLength is the abbreviated commit id length used in output
const ShortIDLength = 7

// ShortID abbreviates a hex commit id
func ShortID(id string) string {
	if len(id) > ShortIDLength {
		return id[:ShortIDLength]
	}
	return id
}
