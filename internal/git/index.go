package git

import (
	"sort"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"

	"reconcile.dev/reconcile/internal/errors"
)

// Index stages. go-git's index.Merged shares its value with AncestorMode, so
// stage 0 is declared here.
const (
	StageMerged   index.Stage = 0
	StageAncestor             = index.AncestorMode
	StageOurs                 = index.OurMode
	StageTheirs               = index.TheirMode
)

// ReadIndex loads the index; a missing index file yields an empty one
func (r *Repository) ReadIndex() (*index.Index, error) {
	idx, err := r.Storer.Index()
	if err != nil {
		return nil, errors.NewIOError("read index", "", err)
	}
	return idx, nil
}

// WriteIndex sorts entries by path then stage and persists the index
func (r *Repository) WriteIndex(idx *index.Index) error {
	sort.SliceStable(idx.Entries, func(i, j int) bool {
		if idx.Entries[i].Name != idx.Entries[j].Name {
			return idx.Entries[i].Name < idx.Entries[j].Name
		}
		return idx.Entries[i].Stage < idx.Entries[j].Stage
	})
	// Cached trees would go stale after edits
	idx.Cache = nil
	if err := r.Storer.SetIndex(idx); err != nil {
		return errors.NewIOError("write index", "", err)
	}
	return nil
}

// IndexEntries groups entries by path
func IndexEntries(idx *index.Index) map[string][]*index.Entry {
	byPath := make(map[string][]*index.Entry, len(idx.Entries))
	for _, e := range idx.Entries {
		byPath[e.Name] = append(byPath[e.Name], e)
	}
	return byPath
}

// ConflictedPaths returns the sorted paths that carry a stage above zero
func ConflictedPaths(idx *index.Index) []string {
	seen := map[string]bool{}
	var paths []string
	for _, e := range idx.Entries {
		if e.Stage != StageMerged && !seen[e.Name] {
			seen[e.Name] = true
			paths = append(paths, e.Name)
		}
	}
	sort.Strings(paths)
	return paths
}

// StageEntry returns the entry for path at stage, or nil
func StageEntry(idx *index.Index, path string, stage index.Stage) *index.Entry {
	for _, e := range idx.Entries {
		if e.Name == path && e.Stage == stage {
			return e
		}
	}
	return nil
}

// RemovePath drops every stage of path from the index
func RemovePath(idx *index.Index, path string) {
	kept := idx.Entries[:0]
	for _, e := range idx.Entries {
		if e.Name != path {
			kept = append(kept, e)
		}
	}
	idx.Entries = kept
}

// SetResolved replaces every stage of path with a single stage-0 entry
func SetResolved(idx *index.Index, path string, hash plumbing.Hash, mode filemode.FileMode, size uint32) {
	RemovePath(idx, path)
	idx.Entries = append(idx.Entries, &index.Entry{
		Name:       path,
		Hash:       hash,
		Mode:       mode,
		Size:       size,
		ModifiedAt: time.Now(),
	})
}

// SetConflict records base, ours and theirs for path as stages 1-3; nil sides are omitted
func SetConflict(idx *index.Index, path string, base, ours, theirs *TreeFile) {
	RemovePath(idx, path)
	for stage, f := range map[index.Stage]*TreeFile{StageAncestor: base, StageOurs: ours, StageTheirs: theirs} {
		if f == nil {
			continue
		}
		idx.Entries = append(idx.Entries, &index.Entry{
			Name:  path,
			Hash:  f.Hash,
			Mode:  f.Mode,
			Stage: stage,
		})
	}
}

// StagedTree returns the stage-0 entries as a flattened tree. It fails with
// ErrMergeInProgress when the index holds conflicts.
func StagedTree(idx *index.Index) (FlatTree, error) {
	if conflicted := ConflictedPaths(idx); len(conflicted) > 0 {
		return nil, errors.ErrMergeInProgress
	}
	flat := make(FlatTree, len(idx.Entries))
	for _, e := range idx.Entries {
		flat[e.Name] = TreeFile{Hash: e.Hash, Mode: e.Mode}
	}
	return flat, nil
}

// IndexFromTree builds a fully merged index from a flattened tree, filling
// stat data from the working tree where the file exists
func (r *Repository) IndexFromTree(flat FlatTree) *index.Index {
	idx := &index.Index{Version: 2}
	for _, p := range flat.Paths() {
		f := flat[p]
		entry := &index.Entry{Name: p, Hash: f.Hash, Mode: f.Mode}
		if info, err := r.work.Lstat(p); err == nil {
			entry.Size = uint32(info.Size())
			entry.ModifiedAt = info.ModTime()
		}
		idx.Entries = append(idx.Entries, entry)
	}
	return idx
}
