package doctor

import (
	"os"
	"path/filepath"

	"reconcile.dev/reconcile/internal/config"
	"reconcile.dev/reconcile/internal/tui"
)

// checkEnvironment checks the user configuration and log destination
func checkEnvironment(r *report) {
	if _, err := config.GetUserConfig(); err != nil {
		r.fail("user config is unreadable: %v", err)
	} else {
		r.ok("User config is valid")
	}

	switch logPath := tui.GetLogFilePath(); logPath {
	case "":
		r.ok("File logging is disabled")
	default:
		dir := filepath.Dir(logPath)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			r.warn("log directory %s does not exist yet", dir)
		} else {
			r.ok("Logging to %s", logPath)
		}
	}

	if tui.Interactive() {
		r.ok("Prompts are enabled")
	} else {
		r.ok("Prompts are disabled; commands fail instead of asking")
	}
}
