package engine

import (
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"

	"reconcile.dev/reconcile/internal/errors"
	"reconcile.dev/reconcile/internal/git"
)

const defaultMergeMessage = "Merge commit"

// MergeState lists conflicted paths with the sides parsed from their markers
func (e *engineImpl) MergeState() (*MergeState, error) {
	idx, err := e.repo.ReadIndex()
	if err != nil {
		return nil, err
	}
	paths := git.ConflictedPaths(idx)
	byPath := git.IndexEntries(idx)

	state := &MergeState{
		InProgress:    len(paths) > 0,
		ConflictCount: len(paths),
		Conflicts:     make([]ConflictEntry, 0, len(paths)),
	}
	for _, p := range paths {
		entry := ConflictEntry{Path: p}
		for _, ie := range byPath[p] {
			entry.Stages = append(entry.Stages, int(ie.Stage))
		}

		wf, err := e.repo.ReadWorkFile(p)
		if err != nil {
			return nil, err
		}
		if wf.Exists {
			sections := git.ParseConflictMarkers(string(wf.Content))
			entry.Ours = sections.Ours
			entry.Theirs = sections.Theirs
			entry.Ancestor = sections.Ancestor
			entry.HasMarkers = sections.HasMarkers
		}
		state.Conflicts = append(state.Conflicts, entry)
	}

	pending, err := e.repo.ReadMergeState()
	if err != nil {
		return nil, err
	}
	if pending != nil {
		state.Pending = true
		state.MergeHead = pending.Head.String()
		state.Message = pending.Message
	}
	return state, nil
}

// Resolve collapses a conflicted path to a single version. Resolving a path
// that is already resolved with ours or theirs is a no-op.
func (e *engineImpl) Resolve(path string, resolution Resolution) error {
	p, err := e.normalizePath(path)
	if err != nil {
		return err
	}
	if resolution == ResolveAncestor {
		return errors.NewInvalidInputError("resolving to the ancestor version is not supported")
	}

	idx, err := e.repo.ReadIndex()
	if err != nil {
		return err
	}
	entries := git.IndexEntries(idx)[p]
	if len(entries) == 0 {
		return errors.NewInvalidInputError("%s is not a conflicted or tracked path", path)
	}
	conflicted := false
	for _, entry := range entries {
		if entry.Stage != git.StageMerged {
			conflicted = true
		}
	}

	switch resolution {
	case ResolveOurs, ResolveTheirs:
		if !conflicted {
			return nil
		}
		stage := git.StageOurs
		if resolution == ResolveTheirs {
			stage = git.StageTheirs
		}
		chosen := git.StageEntry(idx, p, stage)
		if chosen == nil {
			// The chosen side deleted the file
			if err := e.repo.RemoveWorkFile(p); err != nil {
				return err
			}
			git.RemovePath(idx, p)
			break
		}
		if err := e.repo.WriteBlobToWorkFile(p, git.TreeFile{Hash: chosen.Hash, Mode: chosen.Mode}); err != nil {
			return err
		}
		wf, err := e.repo.ReadWorkFile(p)
		if err != nil {
			return err
		}
		git.SetResolved(idx, p, chosen.Hash, chosen.Mode, uint32(wf.Size))
	case ResolveManual:
		if err := e.stageOne(idx, p); err != nil {
			return err
		}
	default:
		return errors.NewInvalidInputError("unknown resolution %q", resolution)
	}

	e.logger.Debug("resolved conflict", "path", p, "resolution", string(resolution))
	return e.repo.WriteIndex(idx)
}

// ConflictDiff returns the marker-annotated working tree content of a conflicted path
func (e *engineImpl) ConflictDiff(path string) (string, error) {
	p, err := e.normalizePath(path)
	if err != nil {
		return "", err
	}
	idx, err := e.repo.ReadIndex()
	if err != nil {
		return "", err
	}
	for _, c := range git.ConflictedPaths(idx) {
		if c != p {
			continue
		}
		wf, err := e.repo.ReadWorkFile(p)
		if err != nil {
			return "", err
		}
		return string(wf.Content), nil
	}
	return "", errors.NewInvalidInputError("%s is not conflicted", path)
}

// CompleteMerge commits the resolved index with HEAD and the pending merge
// target as parents. The message falls back to MERGE_MSG, then "Merge commit".
func (e *engineImpl) CompleteMerge(message *string) (string, error) {
	idx, err := e.repo.ReadIndex()
	if err != nil {
		return "", err
	}
	if paths := git.ConflictedPaths(idx); len(paths) > 0 {
		return "", fmt.Errorf("%d unresolved conflict(s) remain: %w", len(paths), errors.ErrMergeInProgress)
	}
	pending, err := e.repo.ReadMergeState()
	if err != nil {
		return "", err
	}
	if pending == nil {
		return "", errors.ErrNoMergeInProgress
	}

	msg := defaultMergeMessage
	switch {
	case message != nil && strings.TrimSpace(*message) != "":
		msg = *message
	case pending.Message != "":
		msg = pending.Message
	}

	head, err := e.repo.Head()
	if err != nil {
		return "", err
	}
	if head.Unborn {
		return "", errors.ErrUnbornBranch
	}

	staged, err := git.StagedTree(idx)
	if err != nil {
		return "", err
	}
	treeHash, err := e.repo.WriteTree(staged)
	if err != nil {
		return "", err
	}
	sig, err := e.signature()
	if err != nil {
		return "", err
	}
	hash, err := e.repo.CreateCommit(treeHash, []plumbing.Hash{head.Hash, pending.Head}, ensureTrailingNewline(msg), sig, sig)
	if err != nil {
		return "", err
	}
	if err := e.moveHead(head, hash); err != nil {
		return "", err
	}
	if err := e.repo.ClearMergeState(); err != nil {
		return "", err
	}
	// Refresh stat data now that the index matches the new commit
	if err := e.repo.WriteIndex(e.repo.IndexFromTree(staged)); err != nil {
		return "", err
	}

	e.logger.Debug("completed merge", "hash", hash.String(), "mergeHead", pending.Head.String())
	return hash.String(), nil
}

// AbortMerge restores the index and working tree to HEAD and forgets the merge
func (e *engineImpl) AbortMerge() error {
	idx, err := e.repo.ReadIndex()
	if err != nil {
		return err
	}
	if len(git.ConflictedPaths(idx)) == 0 {
		return errors.ErrNoMergeInProgress
	}

	head, err := e.repo.Head()
	if err != nil {
		return err
	}
	headTree, err := e.headTree(head)
	if err != nil {
		return err
	}
	if err := e.repo.ResetToTree(idx, headTree, headTree); err != nil {
		return err
	}
	e.logger.Debug("aborted merge", "head", head.Hash.String())
	return e.repo.ClearMergeState()
}
