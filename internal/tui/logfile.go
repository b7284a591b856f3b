package tui

import (
	"os"

	"github.com/adrg/xdg"
)

const logFileRel = "reconcile/reconcile.log"

// GetLogFilePath returns the path to the log file.
// If RECONCILE_LOG_FILE is set, uses that path; "off" disables file logging
// and yields "". Otherwise, uses $XDG_STATE_HOME/reconcile/reconcile.log
func GetLogFilePath() string {
	if customPath := os.Getenv("RECONCILE_LOG_FILE"); customPath != "" {
		if customPath == "off" {
			return ""
		}
		return customPath
	}

	path, err := xdg.StateFile(logFileRel)
	if err != nil {
		// Fallback to current directory if the state dir is unusable
		return "reconcile.log"
	}
	return path
}
