// Package config manages reconcile configuration.
//
// It handles:
//   - Repository-specific configuration stored in .git/.reconcile_config
//   - User configuration under the XDG config directory
//   - Layering both over built-in defaults
package config
