/*
PURPOSE:
  Writes per-line classification diagnostics to a CSV file.
  One row per observed build-output line: the line itself, whether it was
  accepted, the extracted source file, and the rejection reasons.

REQUIREMENTS:
  User-specified:
  - Optional report for tuning the classification heuristics.

  Implementation-discovered:
  - Flush after every write so the report survives an interrupted run.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: internal/model.Outcome

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Use Mutex for safety if the scan loop ever becomes parallel.

USAGE:
  w, err := output.NewReportWriter("report.csv")
  w.Write(line, outcome)
  w.Close()

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update header and row mapping together.
*/

package output

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/comptrace/comptrace/internal/model"
)

// ReportWriter handles writing classification diagnostics to a CSV file.
type ReportWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewReportWriter creates a new ReportWriter.
// It overwrites the file if it exists.
func NewReportWriter(path string) (*ReportWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)

	header := []string{"line", "accepted", "file", "reasons"}
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()

	return &ReportWriter{
		file:   f,
		writer: w,
	}, nil
}

// Write writes one classified line to the report.
// It is thread-safe.
func (rw *ReportWriter) Write(line string, out model.Outcome) error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	reasons := make([]string, len(out.Reasons))
	for i, r := range out.Reasons {
		reasons[i] = string(r)
	}

	record := []string{
		line,
		strconv.FormatBool(out.Accepted),
		out.Record.File,
		strings.Join(reasons, ";"),
	}

	if err := rw.writer.Write(record); err != nil {
		return err
	}
	rw.writer.Flush()
	return rw.writer.Error()
}

// Close closes the underlying file.
func (rw *ReportWriter) Close() error {
	rw.writer.Flush()
	return rw.file.Close()
}
