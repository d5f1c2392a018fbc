/*
PURPOSE:
  High-level runner that wraps one build invocation.
  Spawns the build command, streams its stdout through the scan loop, and
  finalizes the compile database when the build exits.

REQUIREMENTS:
  User-specified:
  - Wrap an arbitrary command (make, ninja, a shell script).
  - Relay the build's stderr so compiler errors stay visible.

  Implementation-discovered:
  - stderr must be drained concurrently with stdout or the child can
    stall on a full pipe buffer. The two loops share no mutable state;
    only the stdout loop drives the classifier and sink.
  - The sink must be closed best-effort on every exit path, including
    cancellation, so an interrupted run still leaves a recoverable file.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/engine (scan loop), internal/output

ERROR HANDLING:
  - Sink write failures abort the run; remaining stdout is discarded so
    Wait cannot block on a full pipe.
  - A non-zero build exit is reported after the database is finalized.

IMPLEMENTATION RULES:
  - exec.CommandContext so operator cancellation kills the child.
  - Close order: drain loops, Wait, then finalize the sink.

USAGE:
  err := engine.Run(ctx, cfg, []string{"make", "-j4"})

RELATED FILES:
  - internal/engine/engine.go
  - internal/cli/run.go

MAINTENANCE:
  - Update if parallel scanning of multiple streams is introduced.
*/

package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/comptrace/comptrace/internal/config"
	"github.com/comptrace/comptrace/internal/output"
)

// Run executes the build command described by argv and writes the compile
// database to cfg.Output.
func Run(ctx context.Context, cfg *config.Config, argv []string) error {
	if len(argv) == 0 {
		return errors.New("no build command given")
	}

	e := New(cfg)

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

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to wire build stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("failed to wire build stderr: %w", err)
	}

	output.Logger.Info("Running build", "command", argv, "output", cfg.Output)
	if err := cmd.Start(); err != nil {
		sink.Close()
		return fmt.Errorf("failed to start build command: %w", err)
	}

	stderrDone := make(chan struct{})
	go func() {
		defer close(stderrDone)
		relayStderr(stderr, cfg.EchoStderr)
	}()

	stats, scanErr := e.Scan(stdout, sink, report)
	if scanErr != nil {
		// Keep draining so Wait cannot block on a full stdout pipe.
		io.Copy(io.Discard, stdout)
	}

	<-stderrDone
	waitErr := cmd.Wait()
	closeErr := sink.Close()

	output.Logger.Info("Build observed",
		"lines", stats.Lines,
		"records", stats.Accepted,
		"rejected", stats.Rejected,
		"output", cfg.Output,
	)

	if scanErr != nil {
		return scanErr
	}
	if closeErr != nil {
		return closeErr
	}
	if waitErr != nil {
		return fmt.Errorf("build command failed: %w", waitErr)
	}
	return nil
}

// relayStderr forwards the child's stderr line by line. It never feeds the
// classifier; diagnostics belong to the operator, not the database.
func relayStderr(r io.Reader, echo bool) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		if echo {
			fmt.Fprintln(os.Stderr, sc.Text())
		} else {
			output.Logger.Debug("Build stderr", "line", sc.Text())
		}
	}
	if err := sc.Err(); err != nil {
		output.Logger.Error("Failed to read build stderr", "error", err)
	}
}
