package actions

import (
	"reconcile.dev/reconcile/internal/engine"
	"reconcile.dev/reconcile/internal/errors"
	"reconcile.dev/reconcile/internal/runtime"
	"reconcile.dev/reconcile/internal/tui"
)

// MergeOptions contains options for the merge command
type MergeOptions struct {
	Target          string
	Message         string
	FastForwardOnly bool
	NoFastForward   bool
}

// MergeAction merges a branch, remote-tracking branch or commit into HEAD
func MergeAction(ctx *runtime.Context, opts MergeOptions) error {
	if opts.FastForwardOnly && opts.NoFastForward {
		return errors.NewInvalidInputError("--ff-only and --no-ff cannot be combined")
	}

	result, err := ctx.Engine.Merge(opts.Target, engine.MergeOptions{
		Message:         opts.Message,
		FastForwardOnly: opts.FastForwardOnly,
		NoFastForward:   opts.NoFastForward,
	})
	if err != nil {
		return err
	}
	return reportMergeResult(ctx, opts.Target, result)
}

// PullOptions contains options for the pull command
type PullOptions struct {
	Remote string
	Branch string
	Rebase bool
}

// PullAction fetches the upstream branch and merges it into HEAD
func PullAction(ctx *runtime.Context, opts PullOptions) error {
	strategy := engine.PullMerge
	if opts.Rebase {
		strategy = engine.PullRebase
	}
	remote := opts.Remote
	if remote == "" && opts.Branch != "" {
		remote = ctx.Config.PullRemote
		if remote == "" {
			remote = "origin"
		}
	}

	result, err := ctx.Engine.Pull(ctx.Context, ctx.Fetcher, remote, opts.Branch, strategy)
	if err != nil {
		return err
	}
	target := "upstream"
	if remote != "" && opts.Branch != "" {
		target = remote + "/" + opts.Branch
	}
	return reportMergeResult(ctx, target, result)
}

func reportMergeResult(ctx *runtime.Context, target string, result *engine.MergeResult) error {
	switch {
	case result.Conflicted:
		PrintConflictStatus(target, result, ctx.Splog)
		return errors.NewMergeConflictError(result.ConflictedPaths)
	case result.Analysis == engine.AnalysisUpToDate:
		ctx.Splog.Info("Already up to date.")
	case result.MergeCommit != "":
		ctx.Splog.Success("Merged %s in %s", target, tui.ColorCommitID(result.MergeCommit))
	case result.Analysis == engine.AnalysisUnborn:
		ctx.Splog.Success("Initialized branch at %s", tui.ColorCommitID(result.Head))
	default:
		ctx.Splog.Success("Fast-forwarded to %s", tui.ColorCommitID(result.Head))
	}
	return nil
}
