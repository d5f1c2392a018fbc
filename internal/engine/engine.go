/*
PURPOSE:
  Core scan loop: feeds lines of build output through the classifier and
  pushes accepted records into the compile-database sink.

REQUIREMENTS:
  User-specified:
  - Records must be emitted in line-arrival order, one per accepted line.
  - The command field must be the observed line verbatim.

  Implementation-discovered:
  - Link and archive lines in real builds routinely exceed bufio's default
    64KB token limit; the scanner buffer must be enlarged.
  - The working directory is re-queried per record so a chdir performed by
    the build is reflected in subsequent records; the last good value is
    kept as a fallback if the query fails.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine/runner.go, internal/cli (classify command)
  - Uses: internal/output

ERROR HANDLING:
  - A sink write failure is fatal to the scan: a silently truncated
    database is worse than a loud stop.
  - Reader errors from the scanner propagate wrapped.

IMPLEMENTATION RULES:
  - Single writer: only this loop touches the sink.
  - Rejected lines are logged at Debug with their reason codes; accepted
    lines at Info with the synthesized record fields.

USAGE:
  e := engine.New(cfg)
  stats, err := e.Scan(r, sink, report)

RELATED FILES:
  - internal/engine/classifier.go
  - internal/output/sink.go

MAINTENANCE:
  - Keep Scan byte-transparent; normalization would corrupt commands.
*/

package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/comptrace/comptrace/internal/config"
	"github.com/comptrace/comptrace/internal/output"
)

// Engine classifies build output and records detected compile steps.
type Engine struct {
	Config     *config.Config
	classifier *Classifier
	lastDir    string
}

// New creates a new Engine with the config's pattern set compiled.
func New(cfg *config.Config) *Engine {
	return &Engine{
		Config:     cfg,
		classifier: NewClassifier(cfg),
	}
}

// Stats summarizes one scan.
type Stats struct {
	Lines    int
	Accepted int
	Rejected int
}

// Scan reads r line by line until EOF, classifying each line and pushing
// accepted records into sink. report may be nil.
func (e *Engine) Scan(r io.Reader, sink *output.Sink, report *output.ReportWriter) (Stats, error) {
	var stats Stats

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for sc.Scan() {
		line := sc.Text()
		stats.Lines++

		out := e.classifier.Classify(line)
		if report != nil {
			if err := report.Write(line, out); err != nil {
				output.Logger.Error("Failed to write report row", "error", err)
			}
		}

		if !out.Accepted {
			stats.Rejected++
			output.Logger.Debug("Rejected line", "reasons", out.Reasons, "line", line)
			continue
		}

		rec := out.Record
		rec.Directory = e.workdir()
		stats.Accepted++
		output.Logger.Info("Compile step", "file", rec.File)
		output.Logger.Debug("Accepted line", "command", rec.Command, "directory", rec.Directory)

		if err := sink.Push(rec); err != nil {
			return stats, fmt.Errorf("failed to record compile step: %w", err)
		}
	}

	if err := sc.Err(); err != nil {
		return stats, fmt.Errorf("failed to read build output: %w", err)
	}
	return stats, nil
}

// workdir returns the current working directory, falling back to the last
// successfully queried value.
func (e *Engine) workdir() string {
	if dir, err := os.Getwd(); err == nil {
		e.lastDir = dir
	}
	return e.lastDir
}
