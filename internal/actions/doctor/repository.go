package doctor

import (
	"reconcile.dev/reconcile/internal/config"
	"reconcile.dev/reconcile/internal/git"
)

// checkRepository opens the repository and checks its configuration.
// It returns nil when the repository cannot be opened.
func checkRepository(r *report, dir string) *git.Repository {
	if dir == "" {
		dir = "."
	}
	repo, err := git.Open(dir)
	if err != nil {
		r.fail("not in a git repository: %v", err)
		return nil
	}
	r.ok("Repository at %s", repo.Root())

	cfg, err := config.Load(repo.Root())
	if err != nil {
		r.fail("repository config %s is unreadable: %v", config.RepoConfigPath(repo.Root()), err)
	} else {
		r.ok("Repository config is valid")
	}

	if id, source := effectiveIdentity(repo, cfg); source != "" {
		r.ok("Committing as %s <%s> (from %s)", id.Name, id.Email, source)
	} else {
		r.fail("no commit identity; set user.name and user.email, or run 'reconcile config set author.name'")
	}

	head, err := repo.Head()
	switch {
	case err != nil:
		r.fail("HEAD is unreadable: %v", err)
	case head.Detached:
		r.warn("HEAD is detached at %s", head.Hash.String()[:7])
	case head.Unborn:
		r.ok("On unborn branch %s", head.BranchShort())
	default:
		r.ok("On branch %s", head.BranchShort())
		checkUpstream(r, repo, head.BranchShort())
	}

	remotes, err := repo.Remotes()
	switch {
	case err != nil:
		r.warn("remotes are unreadable: %v", err)
	case len(remotes) == 0:
		r.warn("no remotes configured; pull is unavailable")
	default:
		for _, remote := range remotes {
			r.ok("Remote '%s' -> %s", remote.Config().Name, firstURL(remote.Config().URLs))
		}
	}
	return repo
}

// checkUpstream warns when a configured upstream has no tracking ref
func checkUpstream(r *report, repo *git.Repository, branch string) {
	upstream, err := repo.Upstream(branch)
	if err != nil || upstream == nil {
		return
	}
	if _, ok, err := repo.ResolveUpstream(upstream); err != nil || !ok {
		r.warn("upstream %s of %s has not been fetched", upstream, branch)
		return
	}
	r.ok("Tracking %s", upstream)
}

func firstURL(urls []string) string {
	if len(urls) == 0 {
		return "(no url)"
	}
	return urls[0]
}
