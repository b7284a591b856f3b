package git

import (
	stderrors "errors"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"reconcile.dev/reconcile/internal/errors"
)

// History returns up to limit commits reachable from from, newest committer
// time first. A non-positive limit returns everything.
func (r *Repository) History(from plumbing.Hash, limit int) ([]*object.Commit, error) {
	iter, err := r.Log(&git.LogOptions{From: from, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, errors.NewIOError("walk history", from.String(), err)
	}
	defer iter.Close()

	var commits []*object.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		commits = append(commits, c)
		if limit > 0 && len(commits) >= limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.NewIOError("walk history", from.String(), err)
	}
	return commits, nil
}
