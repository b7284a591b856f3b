package actions

import (
	"fmt"
	"path/filepath"
	"strings"

	"reconcile.dev/reconcile/internal/engine"
	"reconcile.dev/reconcile/internal/errors"
	"reconcile.dev/reconcile/internal/runtime"
	"reconcile.dev/reconcile/internal/tui"
)

// ConflictsListOptions contains options for conflicts list
type ConflictsListOptions struct {
	JSON bool
}

// ConflictsListAction prints every conflicted path with the stages present
func ConflictsListAction(ctx *runtime.Context, opts ConflictsListOptions) error {
	state, err := ctx.Engine.MergeState()
	if err != nil {
		return err
	}
	if opts.JSON {
		return printJSON(ctx, state)
	}

	if !state.InProgress {
		if state.Pending {
			ctx.Splog.Info("All conflicts resolved.")
			ctx.Splog.Tip("Run %s to record the merge commit.", tui.ColorCyan("reconcile conflicts complete"))
			return nil
		}
		ctx.Splog.Info("No merge in progress.")
		return nil
	}

	ctx.Splog.Info("%s", tui.ColorYellow(CountNoun(state.ConflictCount, "conflicted file")+":"))
	for _, c := range state.Conflicts {
		ctx.Splog.Info("  %s %s", tui.ColorRed(c.Path), tui.ColorDim(describeSides(c)))
	}
	return nil
}

func describeSides(c engine.ConflictEntry) string {
	switch {
	case c.Ours == nil:
		return "(deleted by us)"
	case c.Theirs == nil:
		return "(deleted by them)"
	case c.Ancestor == nil:
		return "(both added)"
	default:
		return "(both modified)"
	}
}

// ConflictsShowAction prints the ours/theirs diff for a conflicted path
func ConflictsShowAction(ctx *runtime.Context, path string) error {
	diff, err := ctx.Engine.ConflictDiff(path)
	if err != nil {
		return err
	}
	if diff == "" {
		ctx.Splog.Info("Both sides of %s are identical.", path)
		return nil
	}
	ctx.Splog.Page(diff)
	return nil
}

// ConflictsResolveOptions contains options for conflicts resolve
type ConflictsResolveOptions struct {
	Path string
	// Strategy is ours, theirs or manual; empty prompts for one
	Strategy string
	// Edit opens the file in an editor before a manual resolution is staged
	Edit bool
}

// ConflictsResolveAction resolves one conflicted path
func ConflictsResolveAction(ctx *runtime.Context, opts ConflictsResolveOptions) error {
	strategy := opts.Strategy
	if strategy == "" {
		picked, err := tui.PromptSelect(fmt.Sprintf("How should %s be resolved?", opts.Path), []tui.SelectOption{
			{Label: "Keep ours (current branch)", Value: string(engine.ResolveOurs)},
			{Label: "Take theirs (incoming)", Value: string(engine.ResolveTheirs)},
			{Label: "Edit manually", Value: string(engine.ResolveManual)},
		}, 0)
		if err != nil {
			return err
		}
		strategy = picked
		if strategy == string(engine.ResolveManual) {
			opts.Edit = true
		}
	}

	resolution, ok := engine.ParseResolution(strategy)
	if !ok {
		return errors.NewInvalidInputError("unknown resolution %q (expected ours, theirs or manual)", strategy)
	}

	if resolution == engine.ResolveManual && opts.Edit {
		if err := tui.EditFile(filepath.Join(ctx.RepoRoot, filepath.FromSlash(opts.Path)), ctx.Editor); err != nil {
			return err
		}
	}

	if err := ctx.Engine.Resolve(opts.Path, resolution); err != nil {
		return err
	}
	ctx.Splog.Success("Resolved %s using %s", opts.Path, resolution)

	state, err := ctx.Engine.MergeState()
	if err != nil {
		return err
	}
	if state.ConflictCount == 0 {
		ctx.Splog.Tip("All conflicts resolved. Run %s to record the merge commit.", tui.ColorCyan("reconcile conflicts complete"))
	} else {
		ctx.Splog.Info("%s remaining.", CountNoun(state.ConflictCount, "conflict"))
	}
	return nil
}

// ConflictsAbortOptions contains options for conflicts abort
type ConflictsAbortOptions struct {
	Force bool
}

// ConflictsAbortAction restores HEAD and discards the in-progress merge
func ConflictsAbortAction(ctx *runtime.Context, opts ConflictsAbortOptions) error {
	state, err := ctx.Engine.MergeState()
	if err != nil {
		return err
	}
	if !state.InProgress {
		return errors.ErrNoMergeInProgress
	}

	if !opts.Force {
		msg := "Abort the merge? Resolved and unresolved changes will be discarded."
		confirmed, err := tui.PromptConfirm(msg, false)
		if err != nil {
			return err
		}
		if !confirmed {
			ctx.Splog.Info("Abort canceled.")
			return nil
		}
	}

	if err := ctx.Engine.AbortMerge(); err != nil {
		return err
	}
	ctx.Splog.Success("Merge aborted.")
	return nil
}

// ConflictsCompleteOptions contains options for conflicts complete
type ConflictsCompleteOptions struct {
	// Message overrides the recorded merge message when non-nil
	Message *string
}

// ConflictsCompleteAction records the merge commit once every conflict is resolved
func ConflictsCompleteAction(ctx *runtime.Context, opts ConflictsCompleteOptions) error {
	message := opts.Message
	if message == nil && tui.Interactive() {
		state, err := ctx.Engine.MergeState()
		if err != nil {
			return err
		}
		if state.Pending && state.ConflictCount == 0 {
			entered, err := tui.PromptTextInput("Merge commit message:", firstLine(state.Message))
			if err != nil {
				return err
			}
			if entered != "" && entered != firstLine(state.Message) {
				message = &entered
			}
		}
	}

	id, err := ctx.Engine.CompleteMerge(message)
	if err != nil {
		return err
	}
	ctx.Splog.Success("Merge committed as %s", tui.ColorCommitID(id))
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
