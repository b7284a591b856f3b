package git

import (
	"strings"
	"time"

	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"

	"reconcile.dev/reconcile/internal/errors"
)

// Identity is a name and email pair used for commit signatures
type Identity struct {
	Name  string
	Email string
}

// Valid reports whether both name and email are set
func (i Identity) Valid() bool {
	return strings.TrimSpace(i.Name) != "" && strings.TrimSpace(i.Email) != ""
}

// Signature stamps the identity with a time
func (i Identity) Signature(when time.Time) object.Signature {
	return object.Signature{Name: i.Name, Email: i.Email, When: when}
}

// GitIdentity reads user.name and user.email from the repository config
// layered over the global config. author.* takes precedence over user.*.
func (r *Repository) GitIdentity() (Identity, error) {
	cfg, err := r.ConfigScoped(config.GlobalScope)
	if err != nil {
		return Identity{}, errors.NewIOError("read git config", "", err)
	}
	id := Identity{Name: cfg.User.Name, Email: cfg.User.Email}
	if cfg.Author.Name != "" {
		id.Name = cfg.Author.Name
	}
	if cfg.Author.Email != "" {
		id.Email = cfg.Author.Email
	}
	return id, nil
}

// GitConflictStyle returns merge.conflictStyle from git config, defaulting to merge
func (r *Repository) GitConflictStyle() ConflictStyle {
	cfg, err := r.ConfigScoped(config.GlobalScope)
	if err != nil {
		return ConflictStyleMerge
	}
	switch strings.ToLower(cfg.Raw.Section("merge").Option("conflictStyle")) {
	case "diff3", "zdiff3":
		return ConflictStyleDiff3
	default:
		return ConflictStyleMerge
	}
}

// GitEditor returns core.editor, or "" when unset
func (r *Repository) GitEditor() string {
	cfg, err := r.ConfigScoped(config.GlobalScope)
	if err != nil {
		return ""
	}
	return cfg.Raw.Section("core").Option("editor")
}
