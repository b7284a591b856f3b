package tui

import (
	"fmt"
	"os"
	"os/exec"
)

// ResolveEditor picks the editor command: GIT_EDITOR, then EDITOR, then the
// configured core.editor, then vi
func ResolveEditor(configured string) string {
	if editor := os.Getenv("GIT_EDITOR"); editor != "" {
		return editor
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if configured != "" {
		return configured
	}
	return "vi"
}

// EditFile opens path in the user's editor and waits for it to exit
func EditFile(path, configuredEditor string) error {
	if err := RequireInteractive("an editor session"); err != nil {
		return err
	}
	editor := ResolveEditor(configuredEditor)

	// Run through the shell so editor strings with arguments work
	cmd := exec.Command("sh", "-c", editor+` "$1"`, "sh", path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}
	return nil
}
