// Package logging builds the styled logger used by harbor commands.
//
// Command progress and warnings go through this logger on stderr; protocol
// output (survey captures, parley responses, rendered context) is written to
// stdout untouched so it stays machine-consumable.
package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// New returns the harbor logger. HARBOR_DEBUG=1 lowers the level to debug.
func New() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "harbor",
	})
	if os.Getenv("HARBOR_DEBUG") == "1" {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
