package git

import (
	"os"
	"strings"

	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing"

	"reconcile.dev/reconcile/internal/errors"
)

const (
	mergeHeadFile = "MERGE_HEAD"
	mergeMsgFile  = "MERGE_MSG"
	mergeModeFile = "MERGE_MODE"
	origHeadFile  = "ORIG_HEAD"
)

// PendingMerge is the merge metadata persisted in the .git directory
type PendingMerge struct {
	Head    plumbing.Hash
	Message string
}

// WriteMergeState records a pending merge so it can be completed later
func (r *Repository) WriteMergeState(head, origHead plumbing.Hash, message string) error {
	files := map[string]string{
		mergeHeadFile: head.String() + "\n",
		mergeMsgFile:  message,
		mergeModeFile: "",
	}
	if !origHead.IsZero() {
		files[origHeadFile] = origHead.String() + "\n"
	}
	for name, content := range files {
		if err := util.WriteFile(r.dotGit, name, []byte(content), 0o644); err != nil {
			return errors.NewIOError("write", name, err)
		}
	}
	return nil
}

// ReadMergeState returns the pending merge, or nil when MERGE_HEAD is absent
func (r *Repository) ReadMergeState() (*PendingMerge, error) {
	head, err := util.ReadFile(r.dotGit, mergeHeadFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewIOError("read", mergeHeadFile, err)
	}

	fields := strings.Fields(string(head))
	if len(fields) == 0 || !plumbing.IsHash(fields[0]) {
		return nil, errors.NewInvalidInputError("%s is malformed", mergeHeadFile)
	}
	pending := &PendingMerge{Head: plumbing.NewHash(fields[0])}

	msg, err := util.ReadFile(r.dotGit, mergeMsgFile)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.NewIOError("read", mergeMsgFile, err)
	}
	pending.Message = stripCommentLines(string(msg))
	return pending, nil
}

// ClearMergeState removes MERGE_HEAD, MERGE_MSG and MERGE_MODE; ORIG_HEAD stays
func (r *Repository) ClearMergeState() error {
	for _, name := range []string{mergeHeadFile, mergeMsgFile, mergeModeFile} {
		if err := r.dotGit.Remove(name); err != nil && !os.IsNotExist(err) {
			return errors.NewIOError("remove", name, err)
		}
	}
	return nil
}

// stripCommentLines drops git's "#" guidance lines and surrounding blank space
func stripCommentLines(msg string) string {
	var kept []string
	for _, line := range strings.Split(msg, "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}
