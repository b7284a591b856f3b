package git

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"reconcile.dev/reconcile/internal/errors"
)

// Repository wraps a go-git repository together with its working tree and
// .git filesystems. A handle is owned by one operation at a time.
type Repository struct {
	*git.Repository
	root   string
	work   billy.Filesystem
	dotGit billy.Filesystem
	logger *slog.Logger
}

// Open opens the repository containing path
func Open(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.NewIOError("resolve path", path, err)
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return nil, errors.NewNotFoundError("repository", absPath)
		}
		return nil, errors.NewIOError("open repository", absPath, err)
	}

	return wrap(repo)
}

// Init creates a non-bare repository at path whose HEAD points at defaultBranch
func Init(path, defaultBranch string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.NewIOError("resolve path", path, err)
	}
	if defaultBranch == "" {
		defaultBranch = "main"
	}
	if err := plumbing.NewBranchReferenceName(defaultBranch).Validate(); err != nil {
		return nil, errors.NewInvalidInputError("invalid branch name %q", defaultBranch)
	}

	repo, err := git.PlainInitWithOptions(absPath, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(defaultBranch),
		},
	})
	if err != nil {
		return nil, errors.NewIOError("init repository", absPath, err)
	}

	return wrap(repo)
}

func wrap(repo *git.Repository) (*Repository, error) {
	wt, err := repo.Worktree()
	if err != nil {
		if stderrors.Is(err, git.ErrIsBareRepository) {
			return nil, errors.NewInvalidInputError("bare repositories have no working tree")
		}
		return nil, errors.NewIOError("open worktree", "", err)
	}

	storage, ok := repo.Storer.(*filesystem.Storage)
	if !ok {
		return nil, errors.NewInvalidInputError("repository is not backed by a filesystem")
	}

	return &Repository{
		Repository: repo,
		root:       wt.Filesystem.Root(),
		work:       wt.Filesystem,
		dotGit:     storage.Filesystem(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Root returns the absolute path of the working tree
func (r *Repository) Root() string {
	return r.root
}

// SetLogger sets the logger used for debug breadcrumbs
func (r *Repository) SetLogger(logger *slog.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Logger returns the handle's logger
func (r *Repository) Logger() *slog.Logger {
	return r.logger
}

// HeadState describes where HEAD points
type HeadState struct {
	// Branch is the full reference name HEAD is attached to; empty when detached
	Branch plumbing.ReferenceName
	// Hash is the commit HEAD resolves to; zero when unborn
	Hash plumbing.Hash
	// Unborn is true when HEAD names a branch without commits
	Unborn bool
	// Detached is true when HEAD points directly at a commit
	Detached bool
}

// BranchShort returns the short branch name, or "HEAD" when detached
func (h HeadState) BranchShort() string {
	if h.Detached || h.Branch == "" {
		return "HEAD"
	}
	return h.Branch.Short()
}

// Head reads HEAD without failing on unborn branches
func (r *Repository) Head() (HeadState, error) {
	head, err := r.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return HeadState{}, errors.NewIOError("read HEAD", "", err)
	}

	if head.Type() == plumbing.HashReference {
		return HeadState{Hash: head.Hash(), Detached: true}, nil
	}

	state := HeadState{Branch: head.Target()}
	ref, err := r.Storer.Reference(head.Target())
	switch {
	case stderrors.Is(err, plumbing.ErrReferenceNotFound):
		state.Unborn = true
	case err != nil:
		return HeadState{}, errors.NewIOError("read reference", head.Target().String(), err)
	default:
		state.Hash = ref.Hash()
	}
	return state, nil
}

// HeadCommit returns the commit HEAD points at, or nil when unborn
func (r *Repository) HeadCommit() (*object.Commit, error) {
	head, err := r.Head()
	if err != nil {
		return nil, err
	}
	if head.Unborn {
		return nil, nil
	}
	return r.Commit(head.Hash)
}

// Commit loads a commit object
func (r *Repository) Commit(hash plumbing.Hash) (*object.Commit, error) {
	commit, err := r.CommitObject(hash)
	if err != nil {
		if stderrors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, errors.NewNotFoundError("commit", hash.String())
		}
		return nil, errors.NewIOError("read commit", hash.String(), err)
	}
	return commit, nil
}

// ResolveCommit resolves a branch, remote branch, tag, hash or revision expression to a commit
func (r *Repository) ResolveCommit(rev string) (*object.Commit, error) {
	if rev == "" {
		return nil, errors.NewInvalidInputError("empty revision")
	}

	// Fully qualified names first so "origin/main" and "refs/heads/x" resolve predictably
	for _, name := range []plumbing.ReferenceName{
		plumbing.ReferenceName(rev),
		plumbing.NewBranchReferenceName(rev),
		plumbing.ReferenceName("refs/remotes/" + rev),
		plumbing.NewTagReferenceName(rev),
	} {
		ref, err := r.Reference(name, true)
		if err != nil {
			continue
		}
		commit, err := r.peelToCommit(ref.Hash())
		if err == nil {
			return commit, nil
		}
	}

	hash, err := r.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) || stderrors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, errors.NewNotFoundError("revision", rev)
		}
		return nil, errors.NewInvalidInputError("invalid revision %q: %v", rev, err)
	}
	return r.Commit(*hash)
}

func (r *Repository) peelToCommit(hash plumbing.Hash) (*object.Commit, error) {
	if commit, err := r.CommitObject(hash); err == nil {
		return commit, nil
	}
	tag, err := r.TagObject(hash)
	if err != nil {
		return nil, fmt.Errorf("%s is neither a commit nor a tag: %w", hash, err)
	}
	return tag.Commit()
}
