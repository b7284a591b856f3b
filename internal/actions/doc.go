// Package actions provides high-level business logic for CLI commands.
//
// Each action corresponds to a reconcile command (status, merge, conflicts,
// commit, batch-commit, etc.) and orchestrates operations across the engine
// and the terminal UI.
//
// Key patterns:
//   - Actions accept runtime.Context which provides Engine, Splog, and Config
//   - Actions are stateless - all repository state lives behind the Engine interface
//   - Actions handle user interaction through the tui package
package actions
