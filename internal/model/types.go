/*
PURPOSE:
  Defines the core data structures used throughout comptrace.
  These models represent detected compile steps and classification outcomes.

REQUIREMENTS:
  User-specified:
  - Record the working directory, the verbatim command line, and the
    extracted source file for every detected compile step.
  - Surface machine-readable reasons when a line is rejected.

  Implementation-discovered:
  - Field names and JSON tags must match the compile_commands.json format
    consumed by clangd and other tooling (directory/command/file).

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - CompileRecord is immutable after construction; never mutate a record
    that has already been pushed to a writer.

USAGE:
  rec := model.CompileRecord{Directory: dir, Command: line, File: src}

RELATED FILES:
  - internal/engine/classifier.go
  - internal/output/sink.go

MAINTENANCE:
  - Update ReasonCode values when classification conditions change.
*/

package model

// CompileRecord is one entry of a compile_commands.json database.
type CompileRecord struct {
	Directory string `json:"directory"`
	Command   string `json:"command"`
	File      string `json:"file"`
}

// ReasonCode identifies one classification condition a rejected line failed.
type ReasonCode string

const (
	// MissingCompileFlag: the line does not contain a space-bounded "-c".
	MissingCompileFlag ReasonCode = "missing-compile-flag"
	// MissingOutputFlag: the line does not contain a space-bounded "-o".
	MissingOutputFlag ReasonCode = "missing-output-flag"
	// MissingSourceExtension: no known source-file extension appears anywhere
	// in the line.
	MissingSourceExtension ReasonCode = "missing-source-extension"
	// LooksLikeBuildSystemNoise: the line contains a denylisted substring
	// typical of build-tool rule output. Diagnostic only; it is reported
	// alongside other reasons but is never an acceptance condition.
	LooksLikeBuildSystemNoise ReasonCode = "build-system-noise"
	// NotACompilerInvocation: no known compiler basename appears as a
	// path-trailing token.
	NotACompilerInvocation ReasonCode = "not-a-compiler-invocation"
)

// Outcome is the result of classifying one line of build output.
// When Accepted is true, Record holds the synthesized compile step (its
// Directory field is filled in by the caller) and Reasons is empty.
// When Accepted is false, Reasons lists every failed condition.
type Outcome struct {
	Accepted bool
	Record   CompileRecord
	Reasons  []ReasonCode
}
