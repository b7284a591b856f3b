package engine

import (
	"sort"

	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"

	"reconcile.dev/reconcile/internal/git"
)

// snapshot holds the three trees status compares
type snapshot struct {
	head       git.HeadState
	headTree   git.FlatTree
	idx        *index.Index
	staged     git.FlatTree
	conflicted map[string]bool
}

func (e *engineImpl) takeSnapshot() (*snapshot, error) {
	head, err := e.repo.Head()
	if err != nil {
		return nil, err
	}
	headTree := git.FlatTree{}
	if !head.Unborn {
		commit, err := e.repo.Commit(head.Hash)
		if err != nil {
			return nil, err
		}
		if headTree, err = e.repo.CommitTree(commit); err != nil {
			return nil, err
		}
	}

	idx, err := e.repo.ReadIndex()
	if err != nil {
		return nil, err
	}

	snap := &snapshot{
		head:       head,
		headTree:   headTree,
		idx:        idx,
		staged:     git.FlatTree{},
		conflicted: map[string]bool{},
	}
	for _, p := range git.ConflictedPaths(idx) {
		snap.conflicted[p] = true
	}
	for _, entry := range idx.Entries {
		if entry.Stage == git.StageMerged && !snap.conflicted[entry.Name] {
			snap.staged[entry.Name] = git.TreeFile{Hash: entry.Hash, Mode: entry.Mode}
		}
	}
	return snap, nil
}

func isTypeChange(a, b filemode.FileMode) bool {
	kind := func(m filemode.FileMode) int {
		switch m {
		case filemode.Symlink:
			return 1
		case filemode.Submodule:
			return 2
		default:
			return 0
		}
	}
	return kind(a) != kind(b)
}

func compareEntries(from, to git.TreeFile) (FileStatus, bool) {
	if from == to {
		return "", false
	}
	if isTypeChange(from.Mode, to.Mode) {
		return StatusTypeChange, true
	}
	return StatusModified, true
}

// Status recomputes the full repository status
func (e *engineImpl) Status() (*RepoStatus, error) {
	snap, err := e.takeSnapshot()
	if err != nil {
		return nil, err
	}
	status := &RepoStatus{
		Staged:     []StatusItem{},
		Unstaged:   []StatusItem{},
		Untracked:  []StatusItem{},
		Conflicted: []StatusItem{},
	}

	// HEAD vs index
	paths := map[string]struct{}{}
	for p := range snap.headTree {
		paths[p] = struct{}{}
	}
	for p := range snap.staged {
		paths[p] = struct{}{}
	}
	for p := range paths {
		if snap.conflicted[p] {
			continue
		}
		h, inHead := snap.headTree[p]
		s, inIndex := snap.staged[p]
		switch {
		case inIndex && !inHead:
			status.Staged = append(status.Staged, StatusItem{Path: p, Status: StatusAdded})
		case inHead && !inIndex:
			status.Staged = append(status.Staged, StatusItem{Path: p, Status: StatusDeleted})
		default:
			if kind, changed := compareEntries(h, s); changed {
				status.Staged = append(status.Staged, StatusItem{Path: p, Status: kind})
			}
		}
	}

	// Index vs working tree
	for p, entry := range snap.staged {
		if entry.Mode == filemode.Submodule {
			continue
		}
		wf, err := e.repo.ReadWorkFile(p)
		if err != nil {
			return nil, err
		}
		if !wf.Exists {
			status.Unstaged = append(status.Unstaged, StatusItem{Path: p, Status: StatusDeleted})
			continue
		}
		if kind, changed := compareEntries(entry, git.TreeFile{Hash: wf.Hash(), Mode: normalizeMode(wf.Mode)}); changed {
			status.Unstaged = append(status.Unstaged, StatusItem{Path: p, Status: kind})
		}
	}

	// Untracked
	ignorer, err := e.repo.LoadIgnorer()
	if err != nil {
		return nil, err
	}
	files, err := e.repo.WalkWorkFiles(ignorer)
	if err != nil {
		return nil, err
	}
	tracked := git.IndexEntries(snap.idx)
	for _, p := range files {
		if _, ok := tracked[p]; !ok {
			status.Untracked = append(status.Untracked, StatusItem{Path: p, Status: StatusUntracked})
		}
	}

	for p := range snap.conflicted {
		status.Conflicted = append(status.Conflicted, StatusItem{Path: p, Status: StatusUnmerged})
	}

	if e.opts.DetectRenames {
		status.Staged = detectRenames(status.Staged, snap)
	}
	for _, items := range [][]StatusItem{status.Staged, status.Unstaged, status.Untracked, status.Conflicted} {
		sortItems(items)
	}
	return status, nil
}

// normalizeMode maps working tree modes onto the modes git records
func normalizeMode(m filemode.FileMode) filemode.FileMode {
	if m == filemode.Deprecated {
		return filemode.Regular
	}
	return m
}

// detectRenames collapses a deletion and an addition of identical content into one rename
func detectRenames(items []StatusItem, snap *snapshot) []StatusItem {
	deleted := map[string]string{}
	for _, item := range items {
		if item.Status == StatusDeleted {
			deleted[snap.headTree[item.Path].Hash.String()] = item.Path
		}
	}
	if len(deleted) == 0 {
		return items
	}

	renamedFrom := map[string]bool{}
	out := make([]StatusItem, 0, len(items))
	for _, item := range items {
		if item.Status != StatusAdded {
			continue
		}
		hash := snap.staged[item.Path].Hash.String()
		if old, ok := deleted[hash]; ok && !renamedFrom[old] {
			renamedFrom[old] = true
			out = append(out, StatusItem{Path: item.Path, Status: StatusRenamed, OldPath: old})
		}
	}
	for _, item := range items {
		switch {
		case item.Status == StatusDeleted && renamedFrom[item.Path]:
			continue
		case item.Status == StatusAdded && containsRename(out, item.Path):
			continue
		}
		out = append(out, item)
	}
	return out
}

func containsRename(items []StatusItem, p string) bool {
	for _, item := range items {
		if item.Status == StatusRenamed && item.Path == p {
			return true
		}
	}
	return false
}

func sortItems(items []StatusItem) {
	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })
}
