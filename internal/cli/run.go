/*
PURPOSE:
  Defines the 'run' subcommand.
  Wraps one build invocation and writes the compile database.

REQUIREMENTS:
  User-specified:
  - Pass the build command verbatim after "--".
  - Specific flags for overrides.

  Implementation-discovered:
  - Need to load config first, then apply flag overrides.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Run()
  - Uses: internal/config

ERROR HANDLING:
  - Returns error if config load fails or the wrapped build fails.

IMPLEMENTATION RULES:
  - Setup flags in init().
  - Logic: Load Config -> Override -> Validate -> Engine.Run.

USAGE:
  comptrace run -- make -j8

RELATED FILES:
  - internal/cli/root.go

MAINTENANCE:
  - Update when adding new CLI overrides.
*/

package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/comptrace/comptrace/internal/config"
	"github.com/comptrace/comptrace/internal/engine"
	"github.com/comptrace/comptrace/internal/output"
	"github.com/spf13/cobra"
)

var (
	outputOverride     string
	reportOverride     string
	extractOverride    string
	compilersOverride  []string
	extensionsOverride []string
	denyOverride       []string
	verboseOverride    bool
	quietStderr        bool
)

var runCmd = &cobra.Command{
	Use:   "run [flags] -- <build command> [args...]",
	Short: "Run a build and record its compile steps",
	Long: `Executes the given build command, observes its standard output line by
line, and writes every detected single-file compiler invocation to a
compile_commands.json database.

A line counts as a compile step when it names a known compiler, carries the
-c and -o flags, and mentions a source-file extension. The build's own exit
status is preserved: a failing build fails this command too, after the
database has been finalized.

The database is written incrementally while the build is still running, so
a long build never buffers its whole record set in memory. If the run is
killed before the build exits, the file is left without its closing bracket;
re-run to regenerate.`,
	Example: `  # Wrap a make build with defaults (writes ./compile_commands.json)
  comptrace run -- make -j8

  # Ninja build, custom database path, rejection report for tuning
  comptrace run -o build/compile_commands.json --report rejected.csv -- ninja

  # Tighten the heuristics for a cross toolchain
  comptrace run --compilers arm-none-eabi-gcc,arm-none-eabi-g++ -- make`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		output.SetVerbose(cfg.Verbose)

		// An interrupt kills the build but still lets the database be
		// finalized on the way out.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return engine.Run(ctx, cfg, args)
	},
}

// loadConfig loads the config file and applies flag overrides, shared by
// the run and classify commands.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if outputOverride != "" {
		cfg.Output = outputOverride
	}
	if reportOverride != "" {
		cfg.Report = reportOverride
	}
	if extractOverride != "" {
		cfg.Extract = extractOverride
	}
	if len(compilersOverride) > 0 {
		cfg.Compilers = compilersOverride
	}
	if len(extensionsOverride) > 0 {
		cfg.Extensions = extensionsOverride
	}
	if len(denyOverride) > 0 {
		cfg.Deny = denyOverride
	}
	if verboseOverride {
		cfg.Verbose = true
	}
	if quietStderr {
		cfg.EchoStderr = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func addClassifyFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputOverride, "output", "o", "", "Path of the generated compile database")
	cmd.Flags().StringVar(&reportOverride, "report", "", "Write per-line classification diagnostics to this CSV file")
	cmd.Flags().StringVar(&extractOverride, "extract", "", "Source extraction policy: pattern|last-token")
	cmd.Flags().StringSliceVar(&compilersOverride, "compilers", nil, "Comma-separated compiler basenames to detect")
	cmd.Flags().StringSliceVar(&extensionsOverride, "extensions", nil, "Comma-separated source-file extensions")
	cmd.Flags().StringSliceVar(&denyOverride, "deny", nil, "Comma-separated build-noise substrings")
	cmd.Flags().BoolVarP(&verboseOverride, "verbose", "v", false, "Log every rejected line with its reasons")
}

func init() {
	rootCmd.AddCommand(runCmd)

	addClassifyFlags(runCmd)
	runCmd.Flags().BoolVar(&quietStderr, "quiet-stderr", false, "Wrap the build's stderr in log records instead of echoing it")
}
