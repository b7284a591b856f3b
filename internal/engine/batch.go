package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"reconcile.dev/reconcile/internal/errors"
)

// BatchOptions configures BatchCommit
type BatchOptions struct {
	// Concurrency bounds parallel repositories; zero uses the CPU count
	Concurrency int
	// Engine is applied to every repository opened by the batch
	Engine Options
	// StageAll stages every change before committing
	StageAll bool
	// Progress, when set, is notified as each repository starts and finishes
	Progress BatchProgress
}

// BatchProgress observes a running batch. Calls arrive from worker
// goroutines and must be safe for concurrent use.
type BatchProgress interface {
	RepoStarted(index int, path string)
	RepoFinished(index int, commitID string, err error)
}

type batchOutcome struct {
	commitID string
	err      error
}

// BatchCommit commits message in each repository independently. A failure in
// one repository never affects the others; results follow input order. A
// repository reached through more than one path is committed once; the other
// paths fail with InvalidInput.
func BatchCommit(ctx context.Context, paths []string, message string, opts BatchOptions) *BatchCommitResult {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	outcomes := make([]batchOutcome, len(paths))
	claims := &repoClaims{owners: map[string]string{}}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		if first, dup := claims.claim(absOrSelf(path), path); dup {
			outcomes[i] = batchOutcome{err: duplicateError(path, first)}
			continue
		}
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					outcomes[i] = batchOutcome{err: fmt.Errorf("batch worker for %s panicked: %v", path, r)}
				}
			}()
			if err := ctx.Err(); err != nil {
				outcomes[i] = batchOutcome{err: err}
				return nil
			}
			if opts.Progress != nil {
				opts.Progress.RepoStarted(i, path)
			}
			out := commitOne(path, message, opts, claims)
			outcomes[i] = out
			if opts.Progress != nil {
				opts.Progress.RepoFinished(i, ShortID(out.commitID), out.err)
			}
			return nil
		})
	}
	_ = g.Wait()

	result := &BatchCommitResult{Successes: []BatchSuccess{}, Failures: []BatchFailure{}}
	for i, path := range paths {
		out := outcomes[i]
		if out.err != nil {
			result.Failures = append(result.Failures, BatchFailure{
				Path:  path,
				Error: out.err.Error(),
				Kind:  errors.Kind(out.err),
			})
			continue
		}
		result.Successes = append(result.Successes, BatchSuccess{Path: path, CommitID: ShortID(out.commitID)})
	}
	return result
}

func commitOne(path, message string, opts BatchOptions, claims *repoClaims) batchOutcome {
	eng, err := Open(path, opts.Engine)
	if err != nil {
		return batchOutcome{err: err}
	}
	// Subdirectories of one repository share its index
	if root := eng.Root(); root != absOrSelf(path) {
		if first, dup := claims.claim(root, path); dup {
			return batchOutcome{err: duplicateError(path, first)}
		}
	}
	if opts.StageAll {
		if err := eng.StageAll(); err != nil {
			return batchOutcome{err: err}
		}
	}
	id, err := eng.Commit(message)
	if err != nil {
		return batchOutcome{err: err}
	}
	return batchOutcome{commitID: id}
}

// repoClaims records which input path owns each repository
type repoClaims struct {
	mu     sync.Mutex
	owners map[string]string
}

// claim registers path as the owner of key, or reports the existing owner
func (c *repoClaims) claim(key, path string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if first, ok := c.owners[key]; ok {
		return first, true
	}
	c.owners[key] = path
	return "", false
}

func absOrSelf(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

func duplicateError(path, first string) error {
	return errors.NewInvalidInputError("%s is the same repository as %s", path, first)
}
