// Package sat implements the stack-and-tile core: groups of windows
// held together by a linear constraint layout, the tab/crossing/corner
// geometry model, the snapping behaviors that turn drag gestures into
// group mutations, and the controller that binds it all to host events.
package sat

import (
	"os"

	"github.com/charmbracelet/log"
)

// Package-level logger
var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "sat",
	})
}

// SetLogLevel sets the logging level for the sat package.
func SetLogLevel(level log.Level) {
	logger.SetLevel(level)
}
