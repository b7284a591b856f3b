// Package git provides low-level access to a repository's object graph.
//
// It wraps go-git and go-billy and provides a Go-friendly interface for:
//   - Object access (blobs, flattened trees, commits, revisions)
//   - The index, including multi-stage conflict entries
//   - Working tree files (read, write, remove, walk honouring .gitignore)
//   - References, upstream configuration and merge metadata files
//   - Graph queries (merge base, ancestry, ahead/behind counts)
//   - Three-way tree and line merges
//
// Every function operates on an explicit *Repository handle; there is no
// package-level default repository.
package git
