/*
PURPOSE:
  Defines the root Cobra command for the comptrace CLI.
  Handles global flags and command initialization.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface.
  - Support global flags like --config.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/comptrace/main.go
  - Calls: Child commands (run, classify, patterns, init)

ERROR HANDLING:
  - Returns error to main.go for exit code handling.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Keep Run logic in subcommands.

USAGE:
  Called by main.go.

RELATED FILES:
  - cmd/comptrace/main.go

MAINTENANCE:
  - Update when adding new global configuration options.
*/

package cli

import (
	"github.com/spf13/cobra"
)

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "comptrace",
		Short: "Generate compile_commands.json by observing a build",
		Long: `comptrace wraps a build invocation, watches its output line by line,
and records every detected compiler invocation into a compile_commands.json
database usable by clangd, IDEs, and static-analysis tools.

Detection is a best-effort heuristic over the build's textual output; it
does not parse the build system itself. Use 'run --help' for options.`,
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./comptrace.yaml)")
}
