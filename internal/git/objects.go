package git

import (
	stderrors "errors"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"reconcile.dev/reconcile/internal/errors"
)

// TreeFile is a non-directory entry of a flattened tree
type TreeFile struct {
	Hash plumbing.Hash
	Mode filemode.FileMode
}

// FlatTree maps slash-separated paths to their blob entries
type FlatTree map[string]TreeFile

// Paths returns the sorted paths of the tree
func (t FlatTree) Paths() []string {
	paths := make([]string, 0, len(t))
	for p := range t {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ReadBlob returns the content of a blob
func (r *Repository) ReadBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := r.BlobObject(hash)
	if err != nil {
		if stderrors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, errors.NewNotFoundError("blob", hash.String())
		}
		return nil, errors.NewIOError("read blob", hash.String(), err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, errors.NewIOError("read blob", hash.String(), err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewIOError("read blob", hash.String(), err)
	}
	return data, nil
}

// WriteBlob stores data as a blob and returns its hash
func (r *Repository) WriteBlob(data []byte) (plumbing.Hash, error) {
	obj := r.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, errors.NewIOError("write blob", "", err)
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return plumbing.ZeroHash, errors.NewIOError("write blob", "", err)
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, errors.NewIOError("write blob", "", err)
	}

	hash, err := r.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, errors.NewIOError("write blob", "", err)
	}
	return hash, nil
}

// FlattenTree returns every blob, symlink and gitlink below a tree keyed by path.
// The zero hash yields an empty tree.
func (r *Repository) FlattenTree(treeHash plumbing.Hash) (FlatTree, error) {
	flat := FlatTree{}
	if treeHash.IsZero() {
		return flat, nil
	}

	tree, err := r.TreeObject(treeHash)
	if err != nil {
		if stderrors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, errors.NewNotFoundError("tree", treeHash.String())
		}
		return nil, errors.NewIOError("read tree", treeHash.String(), err)
	}

	walker := object.NewTreeWalker(tree, true, nil)
	defer walker.Close()
	for {
		name, entry, err := walker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewIOError("walk tree", treeHash.String(), err)
		}
		if entry.Mode == filemode.Dir {
			continue
		}
		flat[name] = TreeFile{Hash: entry.Hash, Mode: entry.Mode}
	}
	return flat, nil
}

// CommitTree flattens the tree of a commit; a nil commit yields an empty tree
func (r *Repository) CommitTree(commit *object.Commit) (FlatTree, error) {
	if commit == nil {
		return FlatTree{}, nil
	}
	return r.FlattenTree(commit.TreeHash)
}

type treeNode struct {
	files map[string]TreeFile
	dirs  map[string]*treeNode
}

func newTreeNode() *treeNode {
	return &treeNode{files: map[string]TreeFile{}, dirs: map[string]*treeNode{}}
}

// WriteTree writes the nested tree objects for a flattened tree and returns the root hash
func (r *Repository) WriteTree(flat FlatTree) (plumbing.Hash, error) {
	root := newTreeNode()
	for _, p := range flat.Paths() {
		parts := strings.Split(p, "/")
		node := root
		for _, dir := range parts[:len(parts)-1] {
			if _, clash := node.files[dir]; clash {
				return plumbing.ZeroHash, errors.NewInvalidInputError("path %q is both a file and a directory", dir)
			}
			child, ok := node.dirs[dir]
			if !ok {
				child = newTreeNode()
				node.dirs[dir] = child
			}
			node = child
		}
		name := parts[len(parts)-1]
		if _, clash := node.dirs[name]; clash {
			return plumbing.ZeroHash, errors.NewInvalidInputError("path %q is both a file and a directory", p)
		}
		node.files[name] = flat[p]
	}
	return r.writeTreeNode(root)
}

func (r *Repository) writeTreeNode(node *treeNode) (plumbing.Hash, error) {
	entries := make([]object.TreeEntry, 0, len(node.files)+len(node.dirs))
	for name, f := range node.files {
		entries = append(entries, object.TreeEntry{Name: name, Mode: f.Mode, Hash: f.Hash})
	}
	for name, child := range node.dirs {
		hash, err := r.writeTreeNode(child)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		entries = append(entries, object.TreeEntry{Name: name, Mode: filemode.Dir, Hash: hash})
	}
	sort.Sort(object.TreeEntrySorter(entries))

	tree := &object.Tree{Entries: entries}
	obj := r.Storer.NewEncodedObject()
	if err := tree.Encode(obj); err != nil {
		return plumbing.ZeroHash, errors.NewIOError("encode tree", "", err)
	}
	hash, err := r.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, errors.NewIOError("write tree", "", err)
	}
	return hash, nil
}

// CreateCommit writes a commit object and returns its hash. No reference is moved.
func (r *Repository) CreateCommit(tree plumbing.Hash, parents []plumbing.Hash, message string, author, committer object.Signature) (plumbing.Hash, error) {
	commit := &object.Commit{
		Author:       author,
		Committer:    committer,
		Message:      message,
		TreeHash:     tree,
		ParentHashes: parents,
	}
	obj := r.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return plumbing.ZeroHash, errors.NewIOError("encode commit", "", err)
	}
	hash, err := r.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, errors.NewIOError("write commit", "", err)
	}
	r.logger.Debug("wrote commit", "hash", hash.String(), "parents", len(parents))
	return hash, nil
}

// parentDirs returns every ancestor directory of p, deepest first
func parentDirs(p string) []string {
	var dirs []string
	for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
		dirs = append(dirs, dir)
	}
	return dirs
}
