package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"reconcile.dev/reconcile/internal/errors"
	"reconcile.dev/reconcile/internal/git"
)

// mergeTarget is a resolved merge source together with its display name
type mergeTarget struct {
	name   string
	commit *object.Commit
	// kind is "branch", "remote-tracking branch" or "commit"
	kind string
}

func (e *engineImpl) resolveTarget(target string) (*mergeTarget, error) {
	if strings.TrimSpace(target) == "" {
		return nil, errors.NewInvalidInputError("merge target cannot be empty")
	}
	commit, err := e.repo.ResolveCommit(target)
	if err != nil {
		return nil, err
	}

	kind := "commit"
	if _, err := e.repo.Reference(plumbing.NewBranchReferenceName(target), false); err == nil {
		kind = "branch"
	} else if _, err := e.repo.Reference(plumbing.ReferenceName("refs/remotes/"+target), false); err == nil {
		kind = "remote-tracking branch"
	}
	return &mergeTarget{name: target, commit: commit, kind: kind}, nil
}

// defaultMessage mirrors git's synthesized merge messages
func (t *mergeTarget) defaultMessage() string {
	return fmt.Sprintf("Merge %s '%s'", t.kind, t.name)
}

func (e *engineImpl) analyze(head git.HeadState, target *mergeTarget) (MergeAnalysis, error) {
	if head.Unborn {
		return AnalysisUnborn, nil
	}
	theirs := target.commit.Hash
	if theirs == head.Hash {
		return AnalysisUpToDate, nil
	}
	upToDate, err := e.repo.IsAncestor(theirs, head.Hash)
	if err != nil {
		return 0, err
	}
	if upToDate {
		return AnalysisUpToDate, nil
	}
	fastForward, err := e.repo.IsAncestor(head.Hash, theirs)
	if err != nil {
		return 0, err
	}
	if fastForward {
		return AnalysisFastForward, nil
	}
	return AnalysisNormal, nil
}

// Analyze classifies a merge of target into HEAD without side effects
func (e *engineImpl) Analyze(target string) (MergeAnalysis, error) {
	head, err := e.repo.Head()
	if err != nil {
		return 0, err
	}
	t, err := e.resolveTarget(target)
	if err != nil {
		return 0, err
	}
	return e.analyze(head, t)
}

// ensureNoMerge refuses to start while conflicts or a pending merge exist
func (e *engineImpl) ensureNoMerge() error {
	idx, err := e.repo.ReadIndex()
	if err != nil {
		return err
	}
	if paths := git.ConflictedPaths(idx); len(paths) > 0 {
		return fmt.Errorf("%d unresolved conflict(s): %w", len(paths), errors.ErrMergeInProgress)
	}
	pending, err := e.repo.ReadMergeState()
	if err != nil {
		return err
	}
	if pending != nil {
		return fmt.Errorf("a merge is waiting to be completed: %w", errors.ErrMergeInProgress)
	}
	return nil
}

// ensureClean fails when the index or working tree differ from HEAD, or when
// an untracked file would be overwritten by a path in incoming
func (e *engineImpl) ensureClean(op string, headTree, incoming git.FlatTree) error {
	status, err := e.Status()
	if err != nil {
		return err
	}
	var blocking []string
	for _, items := range [][]StatusItem{status.Conflicted, status.Staged, status.Unstaged} {
		for _, item := range items {
			blocking = append(blocking, item.Path)
		}
	}
	for _, item := range status.Untracked {
		if _, tracked := headTree[item.Path]; tracked {
			continue
		}
		if _, wanted := incoming[item.Path]; wanted {
			blocking = append(blocking, item.Path)
		}
	}
	if len(blocking) > 0 {
		return errors.NewUncommittedChangesError(op, blocking)
	}
	return nil
}

// Merge merges target into the current branch
func (e *engineImpl) Merge(target string, opts MergeOptions) (*MergeResult, error) {
	t, err := e.resolveTarget(target)
	if err != nil {
		return nil, err
	}
	if opts.Message == "" {
		opts.Message = t.defaultMessage()
	}
	return e.merge(t, opts)
}

func (e *engineImpl) merge(target *mergeTarget, opts MergeOptions) (*MergeResult, error) {
	if err := e.ensureNoMerge(); err != nil {
		return nil, err
	}
	head, err := e.repo.Head()
	if err != nil {
		return nil, err
	}
	if head.Detached {
		return nil, errors.NewInvalidInputError("cannot merge into a detached HEAD")
	}

	analysis, err := e.analyze(head, target)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("merge analysis", "target", target.name, "analysis", analysis.String())

	if analysis == AnalysisNormal && opts.FastForwardOnly {
		return nil, errors.NewInvalidInputError("not possible to fast-forward to %s", target.name)
	}

	theirsTree, err := e.repo.CommitTree(target.commit)
	if err != nil {
		return nil, err
	}

	switch analysis {
	case AnalysisUpToDate:
		return &MergeResult{Analysis: analysis, Head: head.Hash.String()}, nil

	case AnalysisUnborn:
		if err := e.ensureClean("merge", git.FlatTree{}, theirsTree); err != nil {
			return nil, err
		}
		return e.fastForward(head, git.FlatTree{}, theirsTree, target, analysis)

	case AnalysisFastForward:
		headTree, err := e.headTree(head)
		if err != nil {
			return nil, err
		}
		if err := e.ensureClean("fast-forward", headTree, theirsTree); err != nil {
			return nil, err
		}
		if !opts.NoFastForward {
			return e.fastForward(head, headTree, theirsTree, target, analysis)
		}
		return e.threeWay(head, headTree, theirsTree, target, opts, analysis)

	default:
		headTree, err := e.headTree(head)
		if err != nil {
			return nil, err
		}
		if err := e.ensureClean("merge", headTree, theirsTree); err != nil {
			return nil, err
		}
		return e.threeWay(head, headTree, theirsTree, target, opts, analysis)
	}
}

func (e *engineImpl) headTree(head git.HeadState) (git.FlatTree, error) {
	if head.Unborn {
		return git.FlatTree{}, nil
	}
	commit, err := e.repo.Commit(head.Hash)
	if err != nil {
		return nil, err
	}
	return e.repo.CommitTree(commit)
}

func (e *engineImpl) fastForward(head git.HeadState, from, to git.FlatTree, target *mergeTarget, analysis MergeAnalysis) (*MergeResult, error) {
	if err := e.repo.CheckoutTree(from, to); err != nil {
		return nil, err
	}
	if err := e.repo.SetBranchTarget(head.Branch, target.commit.Hash); err != nil {
		return nil, err
	}
	return &MergeResult{Analysis: analysis, Head: target.commit.Hash.String()}, nil
}

func (e *engineImpl) threeWay(head git.HeadState, oursTree, theirsTree git.FlatTree, target *mergeTarget, opts MergeOptions, analysis MergeAnalysis) (*MergeResult, error) {
	baseHash, err := e.repo.MergeBase(head.Hash, target.commit.Hash)
	if err != nil {
		return nil, err
	}
	baseTree := git.FlatTree{}
	if !baseHash.IsZero() {
		base, err := e.repo.Commit(baseHash)
		if err != nil {
			return nil, err
		}
		if baseTree, err = e.repo.CommitTree(base); err != nil {
			return nil, err
		}
	}

	merged, err := e.repo.MergeTrees(baseTree, oursTree, theirsTree, git.MergeTreeOptions{
		Labels: git.MergeLabels{Ours: "HEAD", Base: "merged common ancestors", Theirs: target.name},
		Style:  e.conflictStyle(),
	})
	if err != nil {
		return nil, err
	}

	if len(merged.Conflicts) > 0 {
		return e.recordConflicts(head, oursTree, merged, target, opts, analysis)
	}

	treeHash, err := e.repo.WriteTree(merged.Merged)
	if err != nil {
		return nil, err
	}
	sig, err := e.signature()
	if err != nil {
		return nil, err
	}
	commitHash, err := e.repo.CreateCommit(treeHash, []plumbing.Hash{head.Hash, target.commit.Hash}, ensureTrailingNewline(opts.Message), sig, sig)
	if err != nil {
		return nil, err
	}
	if err := e.repo.CheckoutTree(oursTree, merged.Merged); err != nil {
		return nil, err
	}
	if err := e.repo.SetBranchTarget(head.Branch, commitHash); err != nil {
		return nil, err
	}
	if err := e.repo.ClearMergeState(); err != nil {
		return nil, err
	}

	return &MergeResult{
		Analysis:    analysis,
		Head:        commitHash.String(),
		MergeCommit: commitHash.String(),
	}, nil
}

// recordConflicts writes stages, marker files and merge metadata
func (e *engineImpl) recordConflicts(head git.HeadState, oursTree git.FlatTree, merged *git.TreeMergeResult, target *mergeTarget, opts MergeOptions, analysis MergeAnalysis) (*MergeResult, error) {
	conflicted := map[string]bool{}
	for _, c := range merged.Conflicts {
		conflicted[c.Path] = true
	}

	for _, p := range oursTree.Paths() {
		if _, kept := merged.Merged[p]; kept || conflicted[p] {
			continue
		}
		if err := e.repo.RemoveWorkFile(p); err != nil {
			return nil, err
		}
	}
	for _, p := range merged.Merged.Paths() {
		if have, ok := oursTree[p]; ok && have == merged.Merged[p] {
			continue
		}
		if err := e.repo.WriteBlobToWorkFile(p, merged.Merged[p]); err != nil {
			return nil, err
		}
	}

	idx := e.repo.IndexFromTree(merged.Merged)
	paths := make([]string, 0, len(merged.Conflicts))
	for _, c := range merged.Conflicts {
		if err := e.repo.WriteWorkFile(c.Path, c.WorkContent, c.WorkMode); err != nil {
			return nil, err
		}
		git.SetConflict(idx, c.Path, c.Base, c.Ours, c.Theirs)
		paths = append(paths, c.Path)
	}
	if err := e.repo.WriteIndex(idx); err != nil {
		return nil, err
	}

	var msg strings.Builder
	msg.WriteString(opts.Message)
	msg.WriteString("\n\n# Conflicts:\n")
	for _, p := range paths {
		msg.WriteString("#\t" + p + "\n")
	}
	if err := e.repo.WriteMergeState(target.commit.Hash, head.Hash, msg.String()); err != nil {
		return nil, err
	}

	e.logger.Debug("merge stopped with conflicts", "target", target.name, "count", len(paths))
	return &MergeResult{
		Analysis:        analysis,
		Head:            head.Hash.String(),
		Conflicted:      true,
		ConflictCount:   len(paths),
		ConflictedPaths: paths,
	}, nil
}

// Pull fetches remote/branch through fetcher and merges the tracking branch.
// Empty remote or branch fall back to the current branch's upstream.
func (e *engineImpl) Pull(ctx context.Context, fetcher Fetcher, remote, branch string, strategy PullStrategy) (*MergeResult, error) {
	if strategy == PullRebase {
		return nil, errors.NewUnsupportedOperationError("pull with rebase")
	}

	head, err := e.repo.Head()
	if err != nil {
		return nil, err
	}
	if remote == "" || branch == "" {
		upstream, err := e.repo.Upstream(head.BranchShort())
		if err != nil {
			return nil, err
		}
		if upstream == nil {
			return nil, errors.NewInvalidInputError("branch %s has no upstream configured", head.BranchShort())
		}
		if remote == "" {
			remote = upstream.Remote
		}
		if branch == "" {
			branch = upstream.Merge.Short()
		}
	}

	if fetcher != nil {
		if err := fetcher.Fetch(ctx, remote, branch); err != nil {
			return nil, err
		}
	}

	trackingName := remote + "/" + branch
	ref, err := e.repo.Reference(plumbing.NewRemoteReferenceName(remote, branch), true)
	if err != nil {
		return nil, errors.NewNotFoundError("remote-tracking branch", trackingName)
	}
	commit, err := e.repo.Commit(ref.Hash())
	if err != nil {
		return nil, err
	}

	target := &mergeTarget{name: trackingName, commit: commit, kind: "remote-tracking branch"}
	return e.merge(target, MergeOptions{Message: target.defaultMessage()})
}

func ensureTrailingNewline(msg string) string {
	if strings.HasSuffix(msg, "\n") {
		return msg
	}
	return msg + "\n"
}
