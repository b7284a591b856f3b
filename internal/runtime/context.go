package runtime

import (
	"context"

	"reconcile.dev/reconcile/internal/config"
	"reconcile.dev/reconcile/internal/engine"
	"reconcile.dev/reconcile/internal/git"
	"reconcile.dev/reconcile/internal/tui"
)

// Context provides access to engine and output for commands
type Context struct {
	context.Context
	Engine   engine.Engine
	Splog    *tui.Splog
	Config   *config.Config
	RepoRoot string
	// Fetcher updates remote-tracking refs for pull; nil skips fetching
	Fetcher engine.Fetcher
	// Editor is core.editor from git config, used when no env override is set
	Editor string
}

// NewContext creates a new context with the given engine
func NewContext(eng engine.Engine, splog *tui.Splog) *Context {
	if splog == nil {
		splog = tui.NewSplog()
	}
	return &Context{
		Context:  context.Background(),
		Engine:   eng,
		Splog:    splog,
		Config:   config.Defaults(),
		RepoRoot: eng.Root(),
	}
}

// EngineOptions maps the effective configuration onto engine options
func EngineOptions(cfg *config.Config, splog *tui.Splog) engine.Options {
	opts := engine.Options{
		DetectRenames: cfg.DetectRenames,
		ConflictStyle: git.ConflictStyle(cfg.ConflictStyle),
		FallbackIdentity: git.Identity{
			Name:  cfg.AuthorName,
			Email: cfg.AuthorEmail,
		},
	}
	if splog != nil {
		opts.Logger = splog.Logger()
	}
	return opts
}

// GetContext opens the repository containing dir and loads its configuration
func GetContext(ctx context.Context, dir string, splog *tui.Splog) (*Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	repo, err := git.Open(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(repo.Root())
	if err != nil {
		return nil, err
	}

	if splog == nil {
		splog = tui.NewSplog()
	}
	eng := engine.NewEngine(repo, EngineOptions(cfg, splog))

	return &Context{
		Context:  ctx,
		Engine:   eng,
		Splog:    splog,
		Config:   cfg,
		RepoRoot: repo.Root(),
		Fetcher:  &git.RemoteFetcher{Repo: repo},
		Editor:   repo.GitEditor(),
	}, nil
}
