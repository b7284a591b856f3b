package git

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"

	"reconcile.dev/reconcile/internal/errors"
)

// RemoteFetcher updates remote-tracking references through go-git.
// It carries no credentials; remotes needing authentication must be fetched
// by the caller's own transport.
type RemoteFetcher struct {
	Repo *Repository
}

// Fetch updates refs/remotes/<remote>/<branch> from the named remote
func (f *RemoteFetcher) Fetch(ctx context.Context, remote, branch string) error {
	if _, err := f.Repo.Remote(remote); err != nil {
		if stderrors.Is(err, git.ErrRemoteNotFound) {
			return errors.NewNotFoundError("remote", remote)
		}
		return errors.NewIOError("read remote", remote, err)
	}

	spec := config.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/remotes/%s/%s", branch, remote, branch))
	err := f.Repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remote,
		RefSpecs:   []config.RefSpec{spec},
	})
	if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		return errors.NewIOError("fetch", remote+"/"+branch, err)
	}
	f.Repo.logger.Debug("fetched", "remote", remote, "branch", branch, "upToDate", err != nil)
	return nil
}

// DefaultRemote returns the remote configured for branch, falling back to origin
func (r *Repository) DefaultRemote(branch string) string {
	if u, err := r.Upstream(branch); err == nil && u != nil && u.Remote != "." {
		return u.Remote
	}
	return "origin"
}
