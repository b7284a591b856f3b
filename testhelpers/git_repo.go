package testhelpers

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Test identity written into every fixture repository
const (
	TestUserName  = "Test User"
	TestUserEmail = "test@example.com"
)

// GitRepo is a fixture repository driven through go-git, so tests need no git binary
type GitRepo struct {
	Dir  string
	Repo *git.Repository
	// clock advances one minute per commit so history order is deterministic
	clock time.Time
}

// NewGitRepo initializes a repository in dir on an unborn main branch
func NewGitRepo(dir string) (*GitRepo, error) {
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	if err != nil {
		return nil, err
	}

	cfg, err := repo.Config()
	if err != nil {
		return nil, err
	}
	cfg.User.Name = TestUserName
	cfg.User.Email = TestUserEmail
	if err := repo.SetConfig(cfg); err != nil {
		return nil, err
	}

	return &GitRepo{
		Dir:   dir,
		Repo:  repo,
		clock: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}, nil
}

func (r *GitRepo) worktree() (*git.Worktree, error) {
	return r.Repo.Worktree()
}

func (r *GitRepo) signature() *object.Signature {
	r.clock = r.clock.Add(time.Minute)
	return &object.Signature{Name: TestUserName, Email: TestUserEmail, When: r.clock}
}

// Path returns the absolute path of a repository-relative file
func (r *GitRepo) Path(rel string) string {
	return filepath.Join(r.Dir, filepath.FromSlash(rel))
}

// WriteFile writes content to a repository-relative path, creating directories
func (r *GitRepo) WriteFile(rel, content string) error {
	full := r.Path(rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, []byte(content), 0o644)
}

// ReadFile returns the working tree content of a repository-relative path
func (r *GitRepo) ReadFile(rel string) (string, error) {
	data, err := os.ReadFile(r.Path(rel))
	return string(data), err
}

// DeleteFile removes a file from the working tree
func (r *GitRepo) DeleteFile(rel string) error {
	return os.Remove(r.Path(rel))
}

// Stage adds paths to the index
func (r *GitRepo) Stage(paths ...string) error {
	wt, err := r.worktree()
	if err != nil {
		return err
	}
	for _, p := range paths {
		if _, err := wt.Add(p); err != nil {
			return fmt.Errorf("stage %s: %w", p, err)
		}
	}
	return nil
}

// StageAll stages every change including deletions
func (r *GitRepo) StageAll() error {
	wt, err := r.worktree()
	if err != nil {
		return err
	}
	return wt.AddWithOptions(&git.AddOptions{All: true})
}

// Commit records the index and returns the new commit id
func (r *GitRepo) Commit(message string) (string, error) {
	wt, err := r.worktree()
	if err != nil {
		return "", err
	}
	sig := r.signature()
	hash, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig, AllowEmptyCommits: true})
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// CommitFile writes, stages and commits a single file
func (r *GitRepo) CommitFile(rel, content, message string) (string, error) {
	if err := r.WriteFile(rel, content); err != nil {
		return "", err
	}
	if err := r.Stage(rel); err != nil {
		return "", err
	}
	return r.Commit(message)
}

// CreateChange writes prefix_test.txt; unless unstaged, it is also staged
func (r *GitRepo) CreateChange(textValue, prefix string, unstaged bool) error {
	rel := prefix + "_test.txt"
	if err := r.WriteFile(rel, textValue); err != nil {
		return err
	}
	if unstaged {
		return nil
	}
	return r.Stage(rel)
}

// CreateChangeAndCommit writes prefix_test.txt and commits it with textValue as the message
func (r *GitRepo) CreateChangeAndCommit(textValue, prefix string) error {
	if err := r.CreateChange(textValue, prefix, false); err != nil {
		return err
	}
	_, err := r.Commit(textValue)
	return err
}

// CreateBranch creates a branch at HEAD without switching to it
func (r *GitRepo) CreateBranch(name string) error {
	head, err := r.Repo.Head()
	if err != nil {
		return err
	}
	return r.Repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), head.Hash()))
}

// CheckoutBranch switches the working tree to an existing branch
func (r *GitRepo) CheckoutBranch(name string) error {
	wt, err := r.worktree()
	if err != nil {
		return err
	}
	return wt.Checkout(&git.CheckoutOptions{Branch: plumbing.NewBranchReferenceName(name)})
}

// CreateAndCheckoutBranch creates a branch at HEAD and switches to it
func (r *GitRepo) CreateAndCheckoutBranch(name string) error {
	if err := r.CreateBranch(name); err != nil {
		return err
	}
	return r.CheckoutBranch(name)
}

// CheckoutDetached detaches HEAD at rev
func (r *GitRepo) CheckoutDetached(rev string) error {
	hash, err := r.Repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return err
	}
	wt, err := r.worktree()
	if err != nil {
		return err
	}
	return wt.Checkout(&git.CheckoutOptions{Hash: *hash})
}

// DeleteBranch removes a local branch ref
func (r *GitRepo) DeleteBranch(name string) error {
	return r.Repo.Storer.RemoveReference(plumbing.NewBranchReferenceName(name))
}

// CurrentBranchName returns the short name of the checked out branch
func (r *GitRepo) CurrentBranchName() (string, error) {
	ref, err := r.Repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", err
	}
	if ref.Type() != plumbing.SymbolicReference {
		return "", fmt.Errorf("HEAD is detached")
	}
	return ref.Target().Short(), nil
}

// GetRevision resolves rev to a full commit id
func (r *GitRepo) GetRevision(rev string) (string, error) {
	hash, err := r.Repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

// GetCurrentSHA returns the commit HEAD points at
func (r *GitRepo) GetCurrentSHA() (string, error) {
	return r.GetRevision("HEAD")
}

// ListCurrentBranchCommitMessages returns commit messages reachable from HEAD, newest first
func (r *GitRepo) ListCurrentBranchCommitMessages() ([]string, error) {
	iter, err := r.Repo.Log(&git.LogOptions{Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, err
	}
	var messages []string
	err = iter.ForEach(func(c *object.Commit) error {
		messages = append(messages, c.Message)
		return nil
	})
	return messages, err
}

// GetCommitCount counts commits reachable from to but not from from
func (r *GitRepo) GetCommitCount(from, to string) (int, error) {
	exclude := map[plumbing.Hash]bool{}
	if from != "" {
		fromHash, err := r.Repo.ResolveRevision(plumbing.Revision(from))
		if err != nil {
			return 0, err
		}
		if err := r.walk(*fromHash, func(c *object.Commit) { exclude[c.Hash] = true }); err != nil {
			return 0, err
		}
	}
	toHash, err := r.Repo.ResolveRevision(plumbing.Revision(to))
	if err != nil {
		return 0, err
	}
	count := 0
	err = r.walk(*toHash, func(c *object.Commit) {
		if !exclude[c.Hash] {
			count++
		}
	})
	return count, err
}

func (r *GitRepo) walk(from plumbing.Hash, fn func(*object.Commit)) error {
	commit, err := r.Repo.CommitObject(from)
	if err != nil {
		return err
	}
	return object.NewCommitPreorderIter(commit, nil, nil).ForEach(func(c *object.Commit) error {
		fn(c)
		return nil
	})
}

// GetLocalBranches returns local branch names, sorted
func (r *GitRepo) GetLocalBranches() ([]string, error) {
	iter, err := r.Repo.Branches()
	if err != nil {
		return nil, err
	}
	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil && err != storer.ErrStop {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// IsAncestor reports whether ancestor is reachable from descendant
func (r *GitRepo) IsAncestor(ancestor, descendant string) (bool, error) {
	a, err := r.Repo.ResolveRevision(plumbing.Revision(ancestor))
	if err != nil {
		return false, err
	}
	d, err := r.Repo.ResolveRevision(plumbing.Revision(descendant))
	if err != nil {
		return false, err
	}
	ac, err := r.Repo.CommitObject(*a)
	if err != nil {
		return false, err
	}
	dc, err := r.Repo.CommitObject(*d)
	if err != nil {
		return false, err
	}
	return ac.IsAncestor(dc)
}

// SetRemoteRef points refs/remotes/<remote>/<branch> at rev, as a fetch would
func (r *GitRepo) SetRemoteRef(remote, branch, rev string) error {
	hash, err := r.Repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return err
	}
	return r.Repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewRemoteReferenceName(remote, branch), *hash))
}

// AddRemote registers a remote URL
func (r *GitRepo) AddRemote(name, url string) error {
	_, err := r.Repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
	return err
}

// SetUpstream configures branch to track remote/remoteBranch, registering
// the remote with a placeholder URL when it does not exist yet
func (r *GitRepo) SetUpstream(branch, remote, remoteBranch string) error {
	cfg, err := r.Repo.Config()
	if err != nil {
		return err
	}
	if _, ok := cfg.Remotes[remote]; !ok {
		cfg.Remotes[remote] = &config.RemoteConfig{
			Name:  remote,
			URLs:  []string{filepath.Join(r.Dir, "..", remote+".git")},
			Fetch: []config.RefSpec{config.RefSpec(fmt.Sprintf("+refs/heads/*:refs/remotes/%s/*", remote))},
		}
	}
	cfg.Branches[branch] = &config.Branch{
		Name:   branch,
		Remote: remote,
		Merge:  plumbing.NewBranchReferenceName(remoteBranch),
	}
	return r.Repo.SetConfig(cfg)
}

// CreateBareRemote initializes a bare repository next to the fixture and
// registers it as remote name
func (r *GitRepo) CreateBareRemote(name string) (string, error) {
	bareDir := filepath.Join(filepath.Dir(r.Dir), filepath.Base(r.Dir)+"-"+name+".git")
	if _, err := git.PlainInit(bareDir, true); err != nil {
		return "", err
	}
	if err := r.AddRemote(name, bareDir); err != nil {
		return "", err
	}
	return bareDir, nil
}

// PushBranch pushes branch to remote and records the remote-tracking ref
func (r *GitRepo) PushBranch(remote, branch string) error {
	spec := config.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/heads/%s", branch, branch))
	err := r.Repo.Push(&git.PushOptions{RemoteName: remote, RefSpecs: []config.RefSpec{spec}})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return err
	}
	return r.SetRemoteRef(remote, branch, branch)
}

// CreateOrphanBranch points a new branch at a parentless commit holding a
// single top-level file. The working tree and HEAD are left alone.
func (r *GitRepo) CreateOrphanBranch(branch, name, content, message string) (string, error) {
	blob := r.Repo.Storer.NewEncodedObject()
	blob.SetType(plumbing.BlobObject)
	w, err := blob.Writer()
	if err != nil {
		return "", err
	}
	if _, err := w.Write([]byte(content)); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	blobHash, err := r.Repo.Storer.SetEncodedObject(blob)
	if err != nil {
		return "", err
	}

	tree := &object.Tree{Entries: []object.TreeEntry{{Name: name, Mode: filemode.Regular, Hash: blobHash}}}
	treeObj := r.Repo.Storer.NewEncodedObject()
	if err := tree.Encode(treeObj); err != nil {
		return "", err
	}
	treeHash, err := r.Repo.Storer.SetEncodedObject(treeObj)
	if err != nil {
		return "", err
	}

	sig := r.signature()
	commit := &object.Commit{Author: *sig, Committer: *sig, Message: message, TreeHash: treeHash}
	commitObj := r.Repo.Storer.NewEncodedObject()
	if err := commit.Encode(commitObj); err != nil {
		return "", err
	}
	commitHash, err := r.Repo.Storer.SetEncodedObject(commitObj)
	if err != nil {
		return "", err
	}
	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), commitHash)
	if err := r.Repo.Storer.SetReference(ref); err != nil {
		return "", err
	}
	return commitHash.String(), nil
}
