package engine

import (
	"github.com/go-git/go-git/v5/plumbing/object"

	"reconcile.dev/reconcile/internal/errors"
	"reconcile.dev/reconcile/internal/git"
)

func toCommitInfo(c *object.Commit, refs []string) CommitInfo {
	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}
	return CommitInfo{
		ID:        c.Hash.String(),
		ShortID:   ShortID(c.Hash.String()),
		Message:   c.Message,
		Author:    c.Author.Name,
		Email:     c.Author.Email,
		Timestamp: c.Author.When.UTC(),
		Parents:   parents,
		Refs:      refs,
	}
}

// History returns up to limit commits reachable from HEAD, newest first.
// An unborn branch has no history.
func (e *engineImpl) History(limit int) ([]CommitInfo, error) {
	head, err := e.repo.Head()
	if err != nil {
		return nil, err
	}
	if head.Unborn {
		return []CommitInfo{}, nil
	}
	commits, err := e.repo.History(head.Hash, limit)
	if err != nil {
		return nil, err
	}
	refs, err := e.repo.RefsByCommit()
	if err != nil {
		return nil, err
	}

	infos := make([]CommitInfo, 0, len(commits))
	for _, c := range commits {
		infos = append(infos, toCommitInfo(c, refs[c.Hash]))
	}
	return infos, nil
}

// FileDiff renders the staged (HEAD to index) and unstaged (index to working
// tree) diffs of one path. Untracked files show as entirely added.
func (e *engineImpl) FileDiff(path string) (*FileDiff, error) {
	p, err := e.normalizePath(path)
	if err != nil {
		return nil, err
	}
	snap, err := e.takeSnapshot()
	if err != nil {
		return nil, err
	}
	if snap.conflicted[p] {
		content, err := e.ConflictDiff(p)
		if err != nil {
			return nil, err
		}
		return &FileDiff{Path: p, Unstaged: content}, nil
	}

	read := func(f git.TreeFile, ok bool) ([]byte, error) {
		if !ok {
			return nil, nil
		}
		return e.repo.ReadBlob(f.Hash)
	}
	headFile, inHead := snap.headTree[p]
	indexFile, inIndex := snap.staged[p]
	wf, err := e.repo.ReadWorkFile(p)
	if err != nil {
		return nil, err
	}
	if !inHead && !inIndex && !wf.Exists {
		return nil, errors.NewNotFoundError("path", path)
	}

	headContent, err := read(headFile, inHead)
	if err != nil {
		return nil, err
	}
	indexContent, err := read(indexFile, inIndex)
	if err != nil {
		return nil, err
	}

	diff := &FileDiff{Path: p}
	if inHead != inIndex || headFile != indexFile {
		if diff.Staged, err = git.UnifiedDiff(p, headContent, indexContent, "a/"+p, "b/"+p); err != nil {
			return nil, err
		}
	}

	before := indexContent
	fromLabel := "a/" + p
	if !inIndex {
		// Untracked: diff against nothing
		fromLabel = "/dev/null"
	}
	var after []byte
	toLabel := "b/" + p
	if wf.Exists {
		after = wf.Content
	} else {
		toLabel = "/dev/null"
	}
	if !inIndex && !wf.Exists {
		return diff, nil
	}
	if !wf.Exists || !inIndex || wf.Hash() != indexFile.Hash {
		if diff.Unstaged, err = git.UnifiedDiff(p, before, after, fromLabel, toLabel); err != nil {
			return nil, err
		}
	}
	return diff, nil
}
