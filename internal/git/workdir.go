package git

import (
	stderrors "errors"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"reconcile.dev/reconcile/internal/errors"
)

const dotGitName = ".git"

// WorkFile is the state of a path in the working tree
type WorkFile struct {
	Path    string
	Exists  bool
	Mode    filemode.FileMode
	Size    int64
	Content []byte
}

// Hash returns the blob hash the content would have once staged
func (f WorkFile) Hash() plumbing.Hash {
	return plumbing.ComputeHash(plumbing.BlobObject, f.Content)
}

// ReadWorkFile reads a path from the working tree. A missing path is not an
// error; the result has Exists == false. Symlinks yield their target as content.
func (r *Repository) ReadWorkFile(p string) (WorkFile, error) {
	file := WorkFile{Path: p}
	info, err := r.work.Lstat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return file, nil
		}
		return file, errors.NewIOError("stat", p, err)
	}
	if info.IsDir() {
		return file, nil
	}

	mode, err := filemode.NewFromOSFileMode(info.Mode())
	if err != nil {
		return file, errors.NewIOError("stat", p, err)
	}
	file.Exists = true
	file.Mode = mode
	file.Size = info.Size()

	if mode == filemode.Symlink {
		target, err := r.work.Readlink(p)
		if err != nil {
			return file, errors.NewIOError("readlink", p, err)
		}
		file.Content = []byte(target)
		return file, nil
	}

	content, err := util.ReadFile(r.work, p)
	if err != nil {
		return file, errors.NewIOError("read", p, err)
	}
	file.Content = content
	return file, nil
}

// WriteWorkFile writes content to p with the permissions implied by mode,
// replacing whatever was there
func (r *Repository) WriteWorkFile(p string, content []byte, mode filemode.FileMode) error {
	if err := r.removeExisting(p); err != nil {
		return err
	}
	if dir := path.Dir(p); dir != "." {
		if err := r.work.MkdirAll(dir, 0o755); err != nil {
			return errors.NewIOError("mkdir", dir, err)
		}
	}

	if mode == filemode.Symlink {
		if err := r.work.Symlink(string(content), p); err != nil {
			return errors.NewIOError("symlink", p, err)
		}
		return nil
	}

	perm := os.FileMode(0o644)
	if mode == filemode.Executable {
		perm = 0o755
	}
	if err := util.WriteFile(r.work, p, content, perm); err != nil {
		return errors.NewIOError("write", p, err)
	}
	return nil
}

// WriteBlobToWorkFile copies a stored blob into the working tree
func (r *Repository) WriteBlobToWorkFile(p string, f TreeFile) error {
	if f.Mode == filemode.Submodule {
		return r.work.MkdirAll(p, 0o755)
	}
	content, err := r.ReadBlob(f.Hash)
	if err != nil {
		return err
	}
	return r.WriteWorkFile(p, content, f.Mode)
}

func (r *Repository) removeExisting(p string) error {
	info, err := r.work.Lstat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.NewIOError("stat", p, err)
	}
	if info.IsDir() {
		if err := util.RemoveAll(r.work, p); err != nil {
			return errors.NewIOError("remove", p, err)
		}
		return nil
	}
	if err := r.work.Remove(p); err != nil {
		return errors.NewIOError("remove", p, err)
	}
	return nil
}

// RemoveWorkFile deletes p and any parent directories left empty
func (r *Repository) RemoveWorkFile(p string) error {
	if err := r.work.Remove(p); err != nil && !os.IsNotExist(err) {
		return errors.NewIOError("remove", p, err)
	}
	for _, dir := range parentDirs(p) {
		entries, err := r.work.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			break
		}
		if err := r.work.Remove(dir); err != nil {
			break
		}
	}
	return nil
}

// Ignorer reports whether a working tree path is excluded by .gitignore rules
type Ignorer struct {
	matcher gitignore.Matcher
}

// Ignored reports whether p (slash separated) is ignored
func (i *Ignorer) Ignored(p string, isDir bool) bool {
	if i == nil || i.matcher == nil {
		return false
	}
	return i.matcher.Match(strings.Split(p, "/"), isDir)
}

// LoadIgnorer reads .git/info/exclude and every .gitignore in the working tree
func (r *Repository) LoadIgnorer() (*Ignorer, error) {
	patterns, err := gitignore.ReadPatterns(r.work, nil)
	if err != nil {
		return nil, errors.NewIOError("read ignore patterns", "", err)
	}
	return &Ignorer{matcher: gitignore.NewMatcher(patterns)}, nil
}

// WalkWorkFiles returns the sorted non-ignored file paths of the working tree.
// The .git directory is never entered.
func (r *Repository) WalkWorkFiles(ignorer *Ignorer) ([]string, error) {
	var files []string
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := r.work.ReadDir(dir)
		if err != nil {
			if stderrors.Is(err, os.ErrNotExist) {
				return nil
			}
			return errors.NewIOError("read dir", dir, err)
		}
		for _, entry := range entries {
			name := entry.Name()
			p := name
			if dir != "" {
				p = dir + "/" + name
			}
			if entry.IsDir() {
				if name == dotGitName || ignorer.Ignored(p, true) {
					continue
				}
				if err := walk(p); err != nil {
					return err
				}
				continue
			}
			if ignorer.Ignored(p, false) {
				continue
			}
			files = append(files, p)
		}
		return nil
	}

	if err := walk(""); err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
