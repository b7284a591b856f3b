package git

import (
	"sort"

	"github.com/go-git/go-git/v5/plumbing/filemode"
)

// PathConflict is a path the tree merge could not reconcile
type PathConflict struct {
	Path   string
	Base   *TreeFile
	Ours   *TreeFile
	Theirs *TreeFile
	// WorkContent is what the working tree receives: marker text for
	// textual conflicts, otherwise the surviving side's content
	WorkContent []byte
	WorkMode    filemode.FileMode
	// Reason is a short description such as "content" or "modify/delete"
	Reason string
}

// TreeMergeResult is the outcome of a three-way tree merge
type TreeMergeResult struct {
	// Merged holds every cleanly merged path
	Merged FlatTree
	// Conflicts is sorted by path
	Conflicts []PathConflict
}

// MergeTreeOptions controls line merging and marker labels
type MergeTreeOptions struct {
	Labels MergeLabels
	Style  ConflictStyle
}

func lookup(t FlatTree, p string) *TreeFile {
	if f, ok := t[p]; ok {
		return &f
	}
	return nil
}

func sameEntry(a, b *TreeFile) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// MergeTrees merges ours and theirs against base path by path. Clean text
// merges are written as new blobs.
func (r *Repository) MergeTrees(base, ours, theirs FlatTree, opts MergeTreeOptions) (*TreeMergeResult, error) {
	result := &TreeMergeResult{Merged: FlatTree{}}

	paths := map[string]struct{}{}
	for _, t := range []FlatTree{base, ours, theirs} {
		for p := range t {
			paths[p] = struct{}{}
		}
	}
	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)

	for _, p := range sorted {
		b, o, t := lookup(base, p), lookup(ours, p), lookup(theirs, p)

		switch {
		case sameEntry(o, t):
			// Both sides agree, including both deleting
			if o != nil {
				result.Merged[p] = *o
			}
		case sameEntry(b, o):
			// Only theirs changed
			if t != nil {
				result.Merged[p] = *t
			}
		case sameEntry(b, t):
			// Only ours changed
			if o != nil {
				result.Merged[p] = *o
			}
		case o == nil || t == nil:
			// One side deleted what the other modified
			conflict, err := r.modifyDeleteConflict(p, b, o, t)
			if err != nil {
				return nil, err
			}
			result.Conflicts = append(result.Conflicts, conflict)
		default:
			merged, conflict, err := r.mergeBothChanged(p, b, o, t, opts)
			if err != nil {
				return nil, err
			}
			if conflict != nil {
				result.Conflicts = append(result.Conflicts, *conflict)
				continue
			}
			result.Merged[p] = merged
		}
	}

	r.logger.Debug("merged trees", "paths", len(sorted), "conflicts", len(result.Conflicts))
	return result, nil
}

func (r *Repository) modifyDeleteConflict(p string, b, o, t *TreeFile) (PathConflict, error) {
	survivor := o
	if survivor == nil {
		survivor = t
	}
	content, err := r.ReadBlob(survivor.Hash)
	if err != nil {
		return PathConflict{}, err
	}
	return PathConflict{
		Path: p, Base: b, Ours: o, Theirs: t,
		WorkContent: content,
		WorkMode:    survivor.Mode,
		Reason:      "modify/delete",
	}, nil
}

// mergeMode picks the side that changed the mode; ours wins when both did
func mergeMode(b, o, t *TreeFile) (filemode.FileMode, bool) {
	switch {
	case o.Mode == t.Mode:
		return o.Mode, true
	case b != nil && b.Mode == o.Mode:
		return t.Mode, true
	case b != nil && b.Mode == t.Mode:
		return o.Mode, true
	}
	return o.Mode, false
}

func (r *Repository) mergeBothChanged(p string, b, o, t *TreeFile, opts MergeTreeOptions) (TreeFile, *PathConflict, error) {
	mode, modeClean := mergeMode(b, o, t)

	if o.Hash == t.Hash {
		if modeClean {
			return TreeFile{Hash: o.Hash, Mode: mode}, nil, nil
		}
		content, err := r.ReadBlob(o.Hash)
		if err != nil {
			return TreeFile{}, nil, err
		}
		return TreeFile{}, &PathConflict{
			Path: p, Base: b, Ours: o, Theirs: t,
			WorkContent: content, WorkMode: o.Mode, Reason: "mode",
		}, nil
	}

	oursContent, err := r.ReadBlob(o.Hash)
	if err != nil {
		return TreeFile{}, nil, err
	}
	theirsContent, err := r.ReadBlob(t.Hash)
	if err != nil {
		return TreeFile{}, nil, err
	}
	var baseContent []byte
	if b != nil {
		if baseContent, err = r.ReadBlob(b.Hash); err != nil {
			return TreeFile{}, nil, err
		}
	}

	regular := o.Mode.IsFile() && t.Mode.IsFile() && o.Mode != filemode.Symlink && t.Mode != filemode.Symlink
	if !regular || IsBinary(oursContent) || IsBinary(theirsContent) || IsBinary(baseContent) {
		return TreeFile{}, &PathConflict{
			Path: p, Base: b, Ours: o, Theirs: t,
			WorkContent: oursContent, WorkMode: o.Mode, Reason: "binary",
		}, nil
	}

	merged := MergeLines(baseContent, oursContent, theirsContent, opts.Labels, opts.Style)
	if merged.Conflicts > 0 || !modeClean {
		reason := "content"
		if b == nil {
			reason = "add/add"
		}
		return TreeFile{}, &PathConflict{
			Path: p, Base: b, Ours: o, Theirs: t,
			WorkContent: merged.Content, WorkMode: mode, Reason: reason,
		}, nil
	}

	hash, err := r.WriteBlob(merged.Content)
	if err != nil {
		return TreeFile{}, nil, err
	}
	return TreeFile{Hash: hash, Mode: mode}, nil, nil
}
