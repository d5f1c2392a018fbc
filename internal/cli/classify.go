package cli

import (
	"fmt"
	"os"

	"github.com/comptrace/comptrace/internal/engine"
	"github.com/comptrace/comptrace/internal/output"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [logfile]",
	Short: "Build a compile database from a captured build log",
	Long: `Runs the same classification pipeline as 'run' over a previously captured
build log (or stdin when no file is given), without spawning a build.
Useful for replaying CI logs and for tuning the heuristics offline.`,
	Example: `  # Replay a saved log
  comptrace classify build.log -o compile_commands.json

  # Pipe a live build through without letting comptrace spawn it
  make -j8 | comptrace classify --report rejected.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		output.SetVerbose(cfg.Verbose)

		in := os.Stdin
		if len(args) == 1 {
			in, err = os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open build log: %w", err)
			}
			defer in.Close()
		}

		dest, err := os.Create(cfg.Output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", cfg.Output, err)
		}
		defer dest.Close()

		sink, err := output.NewSink(dest)
		if err != nil {
			return err
		}

		var report *output.ReportWriter
		if cfg.Report != "" {
			report, err = output.NewReportWriter(cfg.Report)
			if err != nil {
				return fmt.Errorf("failed to init report at %s: %w", cfg.Report, err)
			}
			defer report.Close()
		}

		e := engine.New(cfg)
		stats, scanErr := e.Scan(in, sink, report)
		closeErr := sink.Close()

		output.Logger.Info("Log classified",
			"lines", stats.Lines,
			"records", stats.Accepted,
			"rejected", stats.Rejected,
			"output", cfg.Output,
		)

		if scanErr != nil {
			return scanErr
		}
		return closeErr
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	addClassifyFlags(classifyCmd)
}
