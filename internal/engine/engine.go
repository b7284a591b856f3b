package engine

import (
	"io"
	"log/slog"
	"time"

	"reconcile.dev/reconcile/internal/git"
)

// Options configures an engine
type Options struct {
	// Logger receives debug breadcrumbs; nil discards them
	Logger *slog.Logger
	// ConflictStyle overrides merge.conflictStyle from git config when set
	ConflictStyle git.ConflictStyle
	// DetectRenames pairs identical staged deletions and additions
	DetectRenames bool
	// FallbackIdentity signs commits when git config has no user
	FallbackIdentity git.Identity
	// Now supplies commit timestamps
	Now func() time.Time
}

type engineImpl struct {
	repo   *git.Repository
	logger *slog.Logger
	opts   Options
}

// NewEngine wraps an open repository. The engine takes ownership of the
// handle for the duration of each call; callers serialize access.
func NewEngine(repo *git.Repository, opts Options) Engine {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	repo.SetLogger(opts.Logger)
	return &engineImpl{repo: repo, logger: opts.Logger, opts: opts}
}

// Open opens the repository at path and wraps it in an engine
func Open(path string, opts Options) (Engine, error) {
	repo, err := git.Open(path)
	if err != nil {
		return nil, err
	}
	return NewEngine(repo, opts), nil
}

func (e *engineImpl) Root() string {
	return e.repo.Root()
}

func (e *engineImpl) conflictStyle() git.ConflictStyle {
	if e.opts.ConflictStyle != "" {
		return e.opts.ConflictStyle
	}
	return e.repo.GitConflictStyle()
}
