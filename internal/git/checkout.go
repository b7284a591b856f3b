package git

import (
	"github.com/go-git/go-git/v5/plumbing/format/index"
)

// CheckoutTree moves the working tree and index from one tree to another.
// Paths whose entry is unchanged and present on disk are left alone, paths
// only in from are removed, and the index is rebuilt from to. Untracked files
// are never touched.
func (r *Repository) CheckoutTree(from, to FlatTree) error {
	for _, p := range from.Paths() {
		if _, keep := to[p]; keep {
			continue
		}
		if err := r.RemoveWorkFile(p); err != nil {
			return err
		}
	}

	for _, p := range to.Paths() {
		want := to[p]
		if have, ok := from[p]; ok && have == want {
			if info, err := r.work.Lstat(p); err == nil && !info.IsDir() {
				continue
			}
		}
		if err := r.WriteBlobToWorkFile(p, want); err != nil {
			return err
		}
	}

	r.logger.Debug("checked out tree", "removed", countMissing(from, to), "paths", len(to))
	return r.WriteIndex(r.IndexFromTree(to))
}

// ResetToTree forces the working tree and index to match a tree. Every path
// tracked by the current index or present in from is reconsidered, so it also
// clears merge results and conflict stages.
func (r *Repository) ResetToTree(current *index.Index, from, to FlatTree) error {
	stale := FlatTree{}
	for p, f := range from {
		stale[p] = f
	}
	if current != nil {
		for _, e := range current.Entries {
			if _, ok := stale[e.Name]; !ok {
				stale[e.Name] = TreeFile{Hash: e.Hash, Mode: e.Mode}
			}
		}
	}

	for _, p := range stale.Paths() {
		if _, keep := to[p]; keep {
			continue
		}
		if err := r.RemoveWorkFile(p); err != nil {
			return err
		}
	}
	for _, p := range to.Paths() {
		if err := r.WriteBlobToWorkFile(p, to[p]); err != nil {
			return err
		}
	}
	return r.WriteIndex(r.IndexFromTree(to))
}

func countMissing(from, to FlatTree) int {
	n := 0
	for p := range from {
		if _, ok := to[p]; !ok {
			n++
		}
	}
	return n
}
