package git

import (
	stderrors "errors"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"reconcile.dev/reconcile/internal/errors"
)

// ValidateBranchName rejects names git would refuse
func ValidateBranchName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewInvalidInputError("branch name cannot be empty")
	}
	if err := plumbing.NewBranchReferenceName(name).Validate(); err != nil {
		return errors.NewInvalidInputError("invalid branch name %q", name)
	}
	return nil
}

// SetBranchTarget points a branch reference at hash, creating it if needed
func (r *Repository) SetBranchTarget(name plumbing.ReferenceName, hash plumbing.Hash) error {
	if err := r.Storer.SetReference(plumbing.NewHashReference(name, hash)); err != nil {
		return errors.NewIOError("update reference", name.String(), err)
	}
	r.logger.Debug("moved reference", "ref", name.String(), "target", hash.String())
	return nil
}

// BranchHash returns the tip of a local branch
func (r *Repository) BranchHash(name string) (plumbing.Hash, error) {
	ref, err := r.Storer.Reference(plumbing.NewBranchReferenceName(name))
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			return plumbing.ZeroHash, errors.NewNotFoundError("branch", name)
		}
		return plumbing.ZeroHash, errors.NewIOError("read reference", name, err)
	}
	return ref.Hash(), nil
}

// BranchNames returns all local branch names in alphabetical order
func (r *Repository) BranchNames() ([]string, error) {
	iter, err := r.Branches()
	if err != nil {
		return nil, errors.NewIOError("list branches", "", err)
	}
	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, errors.NewIOError("list branches", "", err)
	}
	sort.Strings(names)
	return names, nil
}

// CreateBranch creates a new local branch at target
func (r *Repository) CreateBranch(name string, target plumbing.Hash) error {
	if err := ValidateBranchName(name); err != nil {
		return err
	}
	refName := plumbing.NewBranchReferenceName(name)
	if _, err := r.Storer.Reference(refName); err == nil {
		return errors.NewInvalidInputError("branch %q already exists", name)
	}
	return r.SetBranchTarget(refName, target)
}

// DeleteBranch removes a local branch and its upstream configuration
func (r *Repository) DeleteBranch(name string) error {
	refName := plumbing.NewBranchReferenceName(name)
	if _, err := r.Storer.Reference(refName); err != nil {
		return errors.NewNotFoundError("branch", name)
	}
	if err := r.Storer.RemoveReference(refName); err != nil {
		return errors.NewIOError("delete reference", refName.String(), err)
	}

	cfg, err := r.Config()
	if err != nil {
		return errors.NewIOError("read config", "", err)
	}
	if _, ok := cfg.Branches[name]; ok {
		delete(cfg.Branches, name)
		if err := r.SetConfig(cfg); err != nil {
			return errors.NewIOError("write config", "", err)
		}
	}
	return nil
}

// RenameBranch moves a branch, its upstream configuration and HEAD if attached
func (r *Repository) RenameBranch(oldName, newName string) error {
	if err := ValidateBranchName(newName); err != nil {
		return err
	}
	hash, err := r.BranchHash(oldName)
	if err != nil {
		return err
	}
	if err := r.CreateBranch(newName, hash); err != nil {
		return err
	}
	if err := r.Storer.RemoveReference(plumbing.NewBranchReferenceName(oldName)); err != nil {
		return errors.NewIOError("delete reference", oldName, err)
	}

	cfg, err := r.Config()
	if err != nil {
		return errors.NewIOError("read config", "", err)
	}
	if branch, ok := cfg.Branches[oldName]; ok {
		delete(cfg.Branches, oldName)
		cfg.Branches[newName] = &config.Branch{
			Name:   newName,
			Remote: branch.Remote,
			Merge:  branch.Merge,
			Rebase: branch.Rebase,
		}
		if err := r.SetConfig(cfg); err != nil {
			return errors.NewIOError("write config", "", err)
		}
	}

	head, err := r.Head()
	if err != nil {
		return err
	}
	if head.Branch == plumbing.NewBranchReferenceName(oldName) {
		return r.SetHeadBranch(newName)
	}
	return nil
}

// SetHeadBranch attaches HEAD to a local branch
func (r *Repository) SetHeadBranch(name string) error {
	ref := plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName(name))
	if err := r.Storer.SetReference(ref); err != nil {
		return errors.NewIOError("update HEAD", "", err)
	}
	return nil
}

// Upstream is the tracking configuration of a local branch
type Upstream struct {
	Remote string
	Merge  plumbing.ReferenceName
}

// TrackingRef returns the reference holding the upstream tip
func (u Upstream) TrackingRef() plumbing.ReferenceName {
	if u.Remote == "." {
		return u.Merge
	}
	return plumbing.NewRemoteReferenceName(u.Remote, u.Merge.Short())
}

// String renders the upstream as remote/branch
func (u Upstream) String() string {
	if u.Remote == "." {
		return u.Merge.Short()
	}
	return u.Remote + "/" + u.Merge.Short()
}

// Upstream returns the configured upstream of a branch, or nil when none is set
func (r *Repository) Upstream(branch string) (*Upstream, error) {
	cfg, err := r.Config()
	if err != nil {
		return nil, errors.NewIOError("read config", "", err)
	}
	b, ok := cfg.Branches[branch]
	if !ok || b.Remote == "" || b.Merge == "" {
		return nil, nil
	}
	return &Upstream{Remote: b.Remote, Merge: b.Merge}, nil
}

// SetUpstream configures branch to track remoteBranch on remote
func (r *Repository) SetUpstream(branch, remote, remoteBranch string) error {
	cfg, err := r.Config()
	if err != nil {
		return errors.NewIOError("read config", "", err)
	}
	cfg.Branches[branch] = &config.Branch{
		Name:   branch,
		Remote: remote,
		Merge:  plumbing.NewBranchReferenceName(remoteBranch),
	}
	if err := r.SetConfig(cfg); err != nil {
		return errors.NewIOError("write config", "", err)
	}
	return nil
}

// ResolveUpstream returns the upstream tip, or the zero hash when the
// tracking reference does not exist
func (r *Repository) ResolveUpstream(u *Upstream) (plumbing.Hash, bool, error) {
	ref, err := r.Storer.Reference(u.TrackingRef())
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			return plumbing.ZeroHash, false, nil
		}
		return plumbing.ZeroHash, false, errors.NewIOError("read reference", u.TrackingRef().String(), err)
	}
	return ref.Hash(), true, nil
}

// RefsByCommit maps commit hashes to the short names of branches and tags pointing at them
func (r *Repository) RefsByCommit() (map[plumbing.Hash][]string, error) {
	iter, err := r.References()
	if err != nil {
		return nil, errors.NewIOError("list references", "", err)
	}
	refs := map[plumbing.Hash][]string{}
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		name := ref.Name()
		if name.IsBranch() || name.IsRemote() || name.IsTag() {
			hash := ref.Hash()
			if name.IsTag() {
				if commit, err := r.peelToCommit(hash); err == nil {
					hash = commit.Hash
				}
			}
			refs[hash] = append(refs[hash], name.Short())
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewIOError("list references", "", err)
	}
	for h := range refs {
		sort.Strings(refs[h])
	}
	return refs, nil
}
