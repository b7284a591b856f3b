package engine

import (
	"github.com/go-git/go-git/v5/plumbing"

	"reconcile.dev/reconcile/internal/git"
)

// BranchInfo reports the current branch and how it relates to its upstream.
// A branch counts as published when its upstream is configured and the
// tracking reference resolves.
func (e *engineImpl) BranchInfo() (*BranchInfo, error) {
	head, err := e.repo.Head()
	if err != nil {
		return nil, err
	}
	info := &BranchInfo{Current: head.BranchShort()}
	if head.Detached {
		return info, nil
	}

	upstream, err := e.repo.Upstream(info.Current)
	if err != nil {
		return nil, err
	}
	if upstream == nil {
		return info, nil
	}
	info.Upstream = upstream.String()

	tip, ok, err := e.repo.ResolveUpstream(upstream)
	if err != nil {
		return nil, err
	}
	info.IsPublished = ok
	if !ok {
		return info, nil
	}

	info.Ahead, info.Behind, err = e.repo.AheadBehind(head.Hash, tip)
	if err != nil {
		return nil, err
	}
	info.NeedPush = info.Ahead > 0
	e.logger.Debug("branch info", "branch", info.Current, "upstream", info.Upstream, "ahead", info.Ahead, "behind", info.Behind)
	return info, nil
}

// AheadBehind counts commits between a local branch and its upstream.
// A branch without a resolvable upstream reports (0, 0).
func (e *engineImpl) AheadBehind(branch string) (int, int, error) {
	if err := git.ValidateBranchName(branch); err != nil {
		return 0, 0, err
	}
	local, err := e.repo.BranchHash(branch)
	if err != nil {
		return 0, 0, err
	}

	upstream, err := e.repo.Upstream(branch)
	if err != nil || upstream == nil {
		return 0, 0, err
	}
	tip, ok, err := e.repo.ResolveUpstream(upstream)
	if err != nil || !ok {
		return 0, 0, err
	}
	return e.repo.AheadBehind(local, tip)
}

// LocalBranches lists local branches with HEAD's branch first, then alphabetically
func (e *engineImpl) LocalBranches() ([]LocalBranch, error) {
	head, err := e.repo.Head()
	if err != nil {
		return nil, err
	}
	names, err := e.repo.BranchNames()
	if err != nil {
		return nil, err
	}

	branches := make([]LocalBranch, 0, len(names)+1)
	var current *LocalBranch
	for _, name := range names {
		b := LocalBranch{Name: name, IsHead: !head.Detached && head.Branch == plumbing.NewBranchReferenceName(name)}
		if u, err := e.repo.Upstream(name); err == nil && u != nil {
			b.Upstream = u.String()
		}
		if b.IsHead {
			current = &b
			continue
		}
		branches = append(branches, b)
	}
	if current == nil && head.Unborn {
		current = &LocalBranch{Name: head.BranchShort(), IsHead: true}
	}
	if current != nil {
		branches = append([]LocalBranch{*current}, branches...)
	}
	return branches, nil
}
