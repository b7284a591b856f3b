package engine

import (
	"github.com/go-git/go-git/v5/plumbing"

	"reconcile.dev/reconcile/internal/errors"
	"reconcile.dev/reconcile/internal/git"
)

// CreateBranch creates name at base, or at HEAD when base is empty
func (e *engineImpl) CreateBranch(name, base string) error {
	if err := git.ValidateBranchName(name); err != nil {
		return err
	}
	var target plumbing.Hash
	if base == "" {
		head, err := e.repo.Head()
		if err != nil {
			return err
		}
		if head.Unborn {
			return errors.ErrUnbornBranch
		}
		target = head.Hash
	} else {
		commit, err := e.repo.ResolveCommit(base)
		if err != nil {
			return err
		}
		target = commit.Hash
	}
	return e.repo.CreateBranch(name, target)
}

// SwitchBranch checks out an existing local branch. The working tree must be clean.
func (e *engineImpl) SwitchBranch(name string) error {
	if err := git.ValidateBranchName(name); err != nil {
		return err
	}
	if err := e.ensureNoMerge(); err != nil {
		return err
	}
	targetHash, err := e.repo.BranchHash(name)
	if err != nil {
		return err
	}
	head, err := e.repo.Head()
	if err != nil {
		return err
	}
	if !head.Detached && head.Branch == plumbing.NewBranchReferenceName(name) {
		return nil
	}

	headTree, err := e.headTree(head)
	if err != nil {
		return err
	}
	commit, err := e.repo.Commit(targetHash)
	if err != nil {
		return err
	}
	targetTree, err := e.repo.CommitTree(commit)
	if err != nil {
		return err
	}
	if err := e.ensureClean("switch branches", headTree, targetTree); err != nil {
		return err
	}
	if err := e.repo.CheckoutTree(headTree, targetTree); err != nil {
		return err
	}
	e.logger.Debug("switched branch", "from", head.BranchShort(), "to", name)
	return e.repo.SetHeadBranch(name)
}

// DeleteBranch removes a local branch other than the current one
func (e *engineImpl) DeleteBranch(name string) error {
	head, err := e.repo.Head()
	if err != nil {
		return err
	}
	if !head.Detached && head.Branch == plumbing.NewBranchReferenceName(name) {
		return errors.NewInvalidInputError("cannot delete the checked out branch %q", name)
	}
	return e.repo.DeleteBranch(name)
}

// RenameBranch renames a local branch, following HEAD if it is checked out
func (e *engineImpl) RenameBranch(oldName, newName string) error {
	return e.repo.RenameBranch(oldName, newName)
}
