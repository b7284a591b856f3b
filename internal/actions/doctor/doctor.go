// Package doctor provides diagnostic checks for the reconcile environment and repository health.
package doctor

import (
	"fmt"

	"reconcile.dev/reconcile/internal/config"
	"reconcile.dev/reconcile/internal/git"
	"reconcile.dev/reconcile/internal/tui"
)

// Options contains options for the doctor command
type Options struct {
	// Dir is any path inside the repository to check
	Dir string
	// Fix clears merge state that points at missing objects
	Fix bool
}

// report collects findings while printing them as they are found
type report struct {
	splog    *tui.Splog
	warnings []string
	errors   []string
}

func (r *report) ok(format string, args ...interface{}) {
	r.splog.Info("  ✅ "+format, args...)
}

func (r *report) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.warnings = append(r.warnings, msg)
	r.splog.Warn("  %s", msg)
}

func (r *report) fail(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	r.errors = append(r.errors, msg)
	r.splog.Error("  %s", msg)
}

// Action runs diagnostic checks and returns an error when any check fails
func Action(splog *tui.Splog, opts Options) error {
	if opts.Fix {
		splog.Info("Running reconcile doctor with --fix...")
	} else {
		splog.Info("Running reconcile doctor...")
	}
	splog.Newline()

	r := &report{splog: splog}

	splog.Info("Environment:")
	checkEnvironment(r)

	splog.Newline()
	splog.Info("Repository:")
	repo := checkRepository(r, opts.Dir)

	if repo != nil {
		splog.Newline()
		splog.Info("Merge State:")
		checkMergeState(r, repo, opts.Fix)
	}

	splog.Newline()
	switch {
	case len(r.errors) > 0:
		splog.Warn("Doctor found %d error(s) and %d warning(s).", len(r.errors), len(r.warnings))
		return fmt.Errorf("doctor found %d error(s)", len(r.errors))
	case len(r.warnings) > 0:
		splog.Info("Doctor found %d warning(s). Your setup is mostly healthy.", len(r.warnings))
	default:
		splog.Info("✅ All checks passed. Your setup is healthy.")
	}
	return nil
}

// effectiveIdentity returns the git identity, falling back to reconcile config
func effectiveIdentity(repo *git.Repository, cfg *config.Config) (git.Identity, string) {
	id, err := repo.GitIdentity()
	if err == nil && id.Valid() {
		return id, "git config"
	}
	if cfg != nil {
		fallback := git.Identity{Name: cfg.AuthorName, Email: cfg.AuthorEmail}
		if fallback.Valid() {
			return fallback, "reconcile config"
		}
	}
	return git.Identity{}, ""
}
