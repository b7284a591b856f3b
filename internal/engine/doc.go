// Package engine computes repository state and performs merges and commits.
//
// It is the core of reconcile, responsible for:
//   - Status across HEAD, the index and the working tree
//   - Branch and upstream relationships (ahead/behind, published)
//   - Merge analysis and execution, with conflicts returned as results
//   - The conflict registry: listing, resolving, completing and aborting merges
//   - Writing and revoking commits, and committing across many repositories
//
// Every Engine wraps exactly one repository handle passed in by the caller.
package engine
