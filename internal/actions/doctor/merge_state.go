package doctor

import (
	"reconcile.dev/reconcile/internal/git"
)

// checkMergeState reports an in-progress merge and repairs merge metadata
// that no longer points at a commit
func checkMergeState(r *report, repo *git.Repository, fix bool) {
	idx, err := repo.ReadIndex()
	if err != nil {
		r.fail("index is unreadable: %v", err)
		return
	}
	conflicts := git.ConflictedPaths(idx)

	pending, err := repo.ReadMergeState()
	if err != nil {
		clearStale(r, repo, fix, "merge state is malformed: %v", err)
		return
	}

	if pending == nil {
		if len(conflicts) > 0 {
			r.fail("%d conflicted path(s) in the index without a pending merge", len(conflicts))
			return
		}
		r.ok("No merge in progress")
		return
	}

	if _, err := repo.Commit(pending.Head); err != nil {
		clearStale(r, repo, fix, "MERGE_HEAD points at missing commit %s", pending.Head.String()[:7])
		return
	}

	if len(conflicts) > 0 {
		r.warn("merge in progress with %d unresolved path(s); resolve them or run 'reconcile conflicts abort'", len(conflicts))
		return
	}
	r.warn("merge in progress with all conflicts resolved; run 'reconcile conflicts complete'")
}

func clearStale(r *report, repo *git.Repository, fix bool, format string, args ...interface{}) {
	if !fix {
		r.fail(format+" (run with --fix to clear it)", args...)
		return
	}
	if err := repo.ClearMergeState(); err != nil {
		r.fail("failed to clear merge state: %v", err)
		return
	}
	r.ok("Cleared stale merge state")
}
