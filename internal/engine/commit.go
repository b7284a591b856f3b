package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"

	"reconcile.dev/reconcile/internal/errors"
	"reconcile.dev/reconcile/internal/git"
)

func (e *engineImpl) signature() (object.Signature, error) {
	id, err := e.repo.GitIdentity()
	if err != nil {
		return object.Signature{}, err
	}
	if !id.Valid() {
		id = e.opts.FallbackIdentity
	}
	if !id.Valid() {
		return object.Signature{}, errors.NewInvalidInputError("no commit identity configured: set user.name and user.email")
	}
	return id.Signature(e.opts.Now()), nil
}

// moveHead points the current branch, or a detached HEAD, at hash
func (e *engineImpl) moveHead(head git.HeadState, hash plumbing.Hash) error {
	if head.Detached {
		if err := e.repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, hash)); err != nil {
			return errors.NewIOError("update HEAD", "", err)
		}
		return nil
	}
	return e.repo.SetBranchTarget(head.Branch, hash)
}

// Commit records the index as a new commit on the current branch and returns its id
func (e *engineImpl) Commit(message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", errors.NewInvalidInputError("commit message cannot be empty")
	}

	idx, err := e.repo.ReadIndex()
	if err != nil {
		return "", err
	}
	staged, err := git.StagedTree(idx)
	if err != nil {
		return "", fmt.Errorf("resolve conflicts before committing: %w", err)
	}

	head, err := e.repo.Head()
	if err != nil {
		return "", err
	}
	pending, err := e.repo.ReadMergeState()
	if err != nil {
		return "", err
	}

	if len(staged) == 0 {
		return "", errors.ErrNothingToCommit
	}
	var parents []plumbing.Hash
	if !head.Unborn {
		parents = append(parents, head.Hash)
	}

	treeHash, err := e.repo.WriteTree(staged)
	if err != nil {
		return "", err
	}

	if !head.Unborn {
		parent, err := e.repo.Commit(head.Hash)
		if err != nil {
			return "", err
		}
		if parent.TreeHash == treeHash && pending == nil {
			return "", errors.ErrNothingToCommit
		}
	}
	if pending != nil && !head.Unborn {
		parents = append(parents, pending.Head)
	}

	sig, err := e.signature()
	if err != nil {
		return "", err
	}
	hash, err := e.repo.CreateCommit(treeHash, parents, ensureTrailingNewline(message), sig, sig)
	if err != nil {
		return "", err
	}
	if err := e.moveHead(head, hash); err != nil {
		return "", err
	}
	if pending != nil {
		if err := e.repo.ClearMergeState(); err != nil {
			return "", err
		}
	}

	e.logger.Debug("committed", "branch", head.BranchShort(), "hash", hash.String())
	return hash.String(), nil
}

// RevokeLastCommit moves the branch back to the first parent of HEAD. The
// index and working tree keep the revoked commit's content.
func (e *engineImpl) RevokeLastCommit() error {
	head, err := e.repo.Head()
	if err != nil {
		return err
	}
	if head.Unborn {
		return errors.ErrUnbornBranch
	}
	commit, err := e.repo.Commit(head.Hash)
	if err != nil {
		return err
	}
	if len(commit.ParentHashes) == 0 {
		return errors.NewInvalidInputError("cannot revoke the root commit")
	}
	e.logger.Debug("revoking commit", "hash", head.Hash.String(), "parent", commit.ParentHashes[0].String())
	return e.moveHead(head, commit.ParentHashes[0])
}

// normalizePath turns a user-supplied path into a slash separated path
// relative to the working tree root
func (e *engineImpl) normalizePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", errors.NewInvalidInputError("path cannot be empty")
	}
	if filepath.IsAbs(p) {
		rel, err := filepath.Rel(e.repo.Root(), p)
		if err != nil {
			return "", errors.NewInvalidInputError("path %q is outside the repository", p)
		}
		p = rel
	}
	clean := filepath.ToSlash(filepath.Clean(p))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", errors.NewInvalidInputError("path %q is outside the repository", p)
	}
	if clean == ".git" || strings.HasPrefix(clean, ".git/") {
		return "", errors.NewInvalidInputError("path %q is inside the .git directory", p)
	}
	return clean, nil
}

// stageOne records the working tree state of p in idx
func (e *engineImpl) stageOne(idx *index.Index, p string) error {
	wf, err := e.repo.ReadWorkFile(p)
	if err != nil {
		return err
	}
	if !wf.Exists {
		git.RemovePath(idx, p)
		return nil
	}
	hash, err := e.repo.WriteBlob(wf.Content)
	if err != nil {
		return err
	}
	git.SetResolved(idx, p, hash, normalizeMode(wf.Mode), uint32(wf.Size))
	return nil
}

// expandPaths maps user paths to tracked or present files; "." and
// directories expand to every non-ignored file beneath them plus tracked
// files that disappeared
func (e *engineImpl) expandPaths(idx *index.Index, paths []string) ([]string, error) {
	ignorer, err := e.repo.LoadIgnorer()
	if err != nil {
		return nil, err
	}
	files, err := e.repo.WalkWorkFiles(ignorer)
	if err != nil {
		return nil, err
	}
	tracked := git.IndexEntries(idx)

	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, raw := range paths {
		p, err := e.normalizePath(raw)
		if err != nil {
			return nil, err
		}
		matched := p == "."
		prefix := p + "/"
		for _, f := range files {
			if p == "." || f == p || strings.HasPrefix(f, prefix) {
				add(f)
				matched = true
			}
		}
		for t := range tracked {
			if p == "." || t == p || strings.HasPrefix(t, prefix) {
				add(t)
				matched = true
			}
		}
		if !matched {
			return nil, errors.NewNotFoundError("path", raw)
		}
	}
	return out, nil
}

// Stage adds the working tree state of paths to the index
func (e *engineImpl) Stage(paths ...string) error {
	if len(paths) == 0 {
		return errors.NewInvalidInputError("no paths given")
	}
	idx, err := e.repo.ReadIndex()
	if err != nil {
		return err
	}
	expanded, err := e.expandPaths(idx, paths)
	if err != nil {
		return err
	}
	for _, p := range expanded {
		if err := e.stageOne(idx, p); err != nil {
			return err
		}
	}
	return e.repo.WriteIndex(idx)
}

// StageAll stages every change, including untracked files and deletions
func (e *engineImpl) StageAll() error {
	return e.Stage(".")
}

// Unstage restores the index entries of paths to their HEAD versions
func (e *engineImpl) Unstage(paths ...string) error {
	if len(paths) == 0 {
		return errors.NewInvalidInputError("no paths given")
	}
	head, err := e.repo.Head()
	if err != nil {
		return err
	}
	headTree, err := e.headTree(head)
	if err != nil {
		return err
	}
	idx, err := e.repo.ReadIndex()
	if err != nil {
		return err
	}

	tracked := git.IndexEntries(idx)
	for _, raw := range paths {
		p, err := e.normalizePath(raw)
		if err != nil {
			return err
		}
		matched := p == "."
		prefix := p + "/"
		candidates := map[string]bool{}
		for t := range tracked {
			if p == "." || t == p || strings.HasPrefix(t, prefix) {
				candidates[t] = true
			}
		}
		for h := range headTree {
			if p == "." || h == p || strings.HasPrefix(h, prefix) {
				candidates[h] = true
			}
		}
		for c := range candidates {
			matched = true
			if f, ok := headTree[c]; ok {
				git.SetResolved(idx, c, f.Hash, f.Mode, 0)
			} else {
				git.RemovePath(idx, c)
			}
		}
		if !matched {
			return errors.NewNotFoundError("path", raw)
		}
	}
	return e.repo.WriteIndex(idx)
}

// UnstageAll resets the whole index to HEAD
func (e *engineImpl) UnstageAll() error {
	return e.Unstage(".")
}
