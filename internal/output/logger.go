/*
PURPOSE:
  Provides a structured logger for comptrace.
  Wraps slog for consistent output.

REQUIREMENTS:
  User-specified:
  - Per-line rejection diagnostics must be available but off by default.

  Implementation-discovered:
  - Logs go to stderr; stdout stays clean for relayed build output.

ARCHITECTURE INTEGRATION:
  - Used everywhere.

ERROR HANDLING:
  - N/A

IMPLEMENTATION RULES:
  - Use `log/slog` (Go 1.21+).

USAGE:
  output.Logger.Info("message", "key", "value")

RELATED FILES:
  - All.

MAINTENANCE:
  - Configurable log formats?
*/

package output

import (
	"log/slog"
	"os"
)

var Logger *slog.Logger

// level is shared by every handler created here so verbosity can be raised
// after flag parsing.
var level = new(slog.LevelVar)

func init() {
	Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// SetVerbose lowers the log level to Debug, enabling per-line diagnostics.
func SetVerbose(verbose bool) {
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

// SetLogger allows overriding the default logger (e.g. for testing)
func SetLogger(l *slog.Logger) {
	Logger = l
}
