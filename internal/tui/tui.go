package tui

import (
	"os"

	"github.com/mattn/go-isatty"

	"reconcile.dev/reconcile/internal/errors"
)

// NonInteractiveEnv disables every prompt when set
const NonInteractiveEnv = "RECONCILE_NON_INTERACTIVE"

// IsTTY returns true if we can use a TTY for interactive TUI
func IsTTY() bool {
	if !((isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
		(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))) {
		return false
	}
	// Also try to open /dev/tty to verify it's actually available
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// Interactive reports whether prompts may be shown
func Interactive() bool {
	return os.Getenv(NonInteractiveEnv) == "" && IsTTY()
}

// RequireInteractive returns an InvalidInput error naming what was missing
// when prompts cannot be shown
func RequireInteractive(missing string) error {
	if Interactive() {
		return nil
	}
	return errors.NewInvalidInputError("%s is required when not running interactively", missing)
}
