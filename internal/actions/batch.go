package actions

import (
	"context"
	"path/filepath"

	"reconcile.dev/reconcile/internal/config"
	"reconcile.dev/reconcile/internal/engine"
	"reconcile.dev/reconcile/internal/errors"
	"reconcile.dev/reconcile/internal/runtime"
	"reconcile.dev/reconcile/internal/tui"
)

// BatchCommitOptions contains options for the batch-commit command
type BatchCommitOptions struct {
	Paths       []string
	Message     string
	StageAll    bool
	Concurrency int
	JSON        bool
	Config      *config.Config
	Splog       *tui.Splog
}

// BatchCommitAction commits the same message in several repositories at once.
// It runs outside any single repository, so it takes its dependencies directly.
func BatchCommitAction(ctx context.Context, opts BatchCommitOptions) (*engine.BatchCommitResult, error) {
	if len(opts.Paths) == 0 {
		return nil, errors.NewInvalidInputError("at least one repository path is required")
	}
	if opts.Message == "" {
		return nil, errors.NewInvalidInputError("commit message must not be empty")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Defaults()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = cfg.BatchConcurrency
	}

	paths := make([]string, len(opts.Paths))
	for i, p := range opts.Paths {
		paths[i] = filepath.Clean(p)
	}

	batchOpts := engine.BatchOptions{
		Concurrency: concurrency,
		Engine:      runtime.EngineOptions(cfg, opts.Splog),
		StageAll:    opts.StageAll,
	}

	var result *engine.BatchCommitResult
	if !opts.JSON && tui.Interactive() {
		reporter := tui.NewChannelBatchProgressReporter(len(paths))
		batchOpts.Progress = reporter
		opts.Splog.SetQuiet(true)
		uiDone := make(chan error, 1)
		go func() { uiDone <- tui.RunBatchTUI(paths, reporter.Updates()) }()
		result = engine.BatchCommit(ctx, paths, opts.Message, batchOpts)
		reporter.Close()
		uiErr := <-uiDone
		opts.Splog.SetQuiet(false)
		if uiErr != nil {
			opts.Splog.Debug("batch progress view failed: %v", uiErr)
		}
	} else {
		result = engine.BatchCommit(ctx, paths, opts.Message, batchOpts)
	}

	if opts.JSON {
		if err := writeJSON(opts.Splog, result); err != nil {
			return nil, err
		}
		return result, nil
	}
	for _, s := range result.Successes {
		opts.Splog.Info("%s %s", tui.ColorGreen("✓"), s.String())
	}
	for _, f := range result.Failures {
		opts.Splog.Info("%s %s: %s", tui.ColorRed("✗"), f.Path, f.Error)
	}
	opts.Splog.Info("%s, %s", CountNoun(len(result.Successes), "commit"), CountNoun(len(result.Failures), "failure"))
	return result, nil
}
