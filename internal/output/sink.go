/*
PURPOSE:
  Streams CompileRecords into a syntactically valid JSON array.
  The number of records is unknown until the wrapped build exits, so the
  array is emitted incrementally instead of being built in memory.

REQUIREMENTS:
  User-specified:
  - Output must be a JSON array of {directory, command, file} objects.
  - Zero accepted lines must still produce a valid empty array.

  Implementation-discovered:
  - Comma bookkeeping is the whole difficulty: a separator goes before
    every entry except the first. An explicit state machine keeps the
    comma/bracket invariants checkable.
  - If the run dies before Close, the file lacks its closing bracket and
    is not valid JSON. Accepted trade-off: memory stays O(1) per record
    and partial output remains inspectable after a crash.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: internal/model.CompileRecord

ERROR HANDLING:
  - Write failures propagate to the caller; the sink never retries.
  - Push after Close returns ErrSinkClosed.

IMPLEMENTATION RULES:
  - Use encoding/json.Marshal per record; command lines carry quotes,
    backslashes and arbitrary bytes that must be escaped.
  - The sink owns exclusive write access for the run but not the
    destination's lifetime; the caller closes the underlying file.

USAGE:
  sink, err := output.NewSink(f)
  err = sink.Push(rec)
  err = sink.Close()

RELATED FILES:
  - internal/engine/runner.go
  - internal/model/types.go

MAINTENANCE:
  - Keep the byte format stable: "[\n", ",\n" separators, "\n]\n".
*/

package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/comptrace/comptrace/internal/model"
)

// ErrSinkClosed is returned by Push after the sink has been finalized.
var ErrSinkClosed = errors.New("compile database sink is closed")

type sinkState int

const (
	sinkBeforeFirst sinkState = iota
	sinkAfterFirst
	sinkClosed
)

// Sink incrementally serializes compile records as one JSON array.
type Sink struct {
	w     io.Writer
	state sinkState
	mu    sync.Mutex
}

// NewSink writes the opening array delimiter and returns a ready sink.
func NewSink(w io.Writer) (*Sink, error) {
	if _, err := io.WriteString(w, "[\n"); err != nil {
		return nil, fmt.Errorf("failed to begin compile database: %w", err)
	}
	return &Sink{w: w, state: sinkBeforeFirst}, nil
}

// Push serializes one record, preceded by a separator unless it is the
// first. Records are written in push order; the sink never reorders.
func (s *Sink) Push(rec model.CompileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == sinkClosed {
		return ErrSinkClosed
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize compile record: %w", err)
	}

	if s.state == sinkAfterFirst {
		if _, err := io.WriteString(s.w, ",\n"); err != nil {
			return fmt.Errorf("failed to write compile database: %w", err)
		}
	}
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("failed to write compile database: %w", err)
	}
	s.state = sinkAfterFirst
	return nil
}

// Close writes the closing array delimiter. Closing an already-closed sink
// is a no-op so that deferred and best-effort shutdown paths can overlap.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == sinkClosed {
		return nil
	}
	s.state = sinkClosed
	if _, err := io.WriteString(s.w, "\n]\n"); err != nil {
		return fmt.Errorf("failed to finalize compile database: %w", err)
	}
	return nil
}
