package git

import (
	"github.com/go-git/go-git/v5/plumbing"

	"reconcile.dev/reconcile/internal/errors"
)

// reachable returns every commit reachable from start, including start.
// The zero hash yields an empty set.
func (r *Repository) reachable(start plumbing.Hash) (map[plumbing.Hash]struct{}, error) {
	seen := map[plumbing.Hash]struct{}{}
	if start.IsZero() {
		return seen, nil
	}

	queue := []plumbing.Hash{start}
	for len(queue) > 0 {
		hash := queue[0]
		queue = queue[1:]
		if _, ok := seen[hash]; ok {
			continue
		}
		seen[hash] = struct{}{}

		commit, err := r.CommitObject(hash)
		if err != nil {
			return nil, errors.NewIOError("read commit", hash.String(), err)
		}
		for _, parent := range commit.ParentHashes {
			if _, ok := seen[parent]; !ok {
				queue = append(queue, parent)
			}
		}
	}
	return seen, nil
}

// AheadBehind counts commits reachable from local but not upstream (ahead)
// and from upstream but not local (behind). Unrelated histories count their
// full reachable sets.
func (r *Repository) AheadBehind(local, upstream plumbing.Hash) (ahead, behind int, err error) {
	if local == upstream {
		return 0, 0, nil
	}

	localSet, err := r.reachable(local)
	if err != nil {
		return 0, 0, err
	}
	upstreamSet, err := r.reachable(upstream)
	if err != nil {
		return 0, 0, err
	}

	for hash := range localSet {
		if _, ok := upstreamSet[hash]; !ok {
			ahead++
		}
	}
	for hash := range upstreamSet {
		if _, ok := localSet[hash]; !ok {
			behind++
		}
	}
	return ahead, behind, nil
}

// IsAncestor reports whether ancestor is reachable from descendant.
// A commit is its own ancestor.
func (r *Repository) IsAncestor(ancestor, descendant plumbing.Hash) (bool, error) {
	if ancestor == descendant {
		return true, nil
	}
	ancestorCommit, err := r.Commit(ancestor)
	if err != nil {
		return false, err
	}
	descendantCommit, err := r.Commit(descendant)
	if err != nil {
		return false, err
	}
	ok, err := ancestorCommit.IsAncestor(descendantCommit)
	if err != nil {
		return false, errors.NewIOError("walk history", descendant.String(), err)
	}
	return ok, nil
}

// MergeBase returns the best common ancestor of two commits, or the zero hash
// when the histories are unrelated
func (r *Repository) MergeBase(a, b plumbing.Hash) (plumbing.Hash, error) {
	commitA, err := r.Commit(a)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	commitB, err := r.Commit(b)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	bases, err := commitA.MergeBase(commitB)
	if err != nil {
		return plumbing.ZeroHash, errors.NewIOError("find merge base", "", err)
	}
	if len(bases) == 0 {
		return plumbing.ZeroHash, nil
	}
	return bases[0].Hash, nil
}
