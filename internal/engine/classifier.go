/*
PURPOSE:
  Classifies single lines of build output as compiler invocations.
  This is the heuristic heart of comptrace: decide whether a line is a
  single-file compile step and extract the source file it compiles.

REQUIREMENTS:
  User-specified:
  - Accept a line iff it carries " -c " and " -o ", mentions a known
    source extension, and names a known compiler as a path-trailing token.
  - Report every failed condition of a rejected line, not just the first.

  Implementation-discovered:
  - Substring heuristics are approximate by design. Flag checks must be
    space-bounded ("-coconut" must not satisfy the "-c" check) and the
    compiler match must anchor on a token boundary so lines that merely
    mention "gcc" inside another word do not qualify.
  - Extraction may come up empty on an otherwise valid compile line; the
    line is still a compile step, so the record keeps an empty file field.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (scan loop)
  - Consumes: internal/config patterns
  - Produces: internal/model.Outcome

ERROR HANDLING:
  - None. Classification is total: every line maps to exactly one outcome.

IMPLEMENTATION RULES:
  - Pure function of the line plus the compiled pattern set. No I/O, no
    hidden state; safe to call concurrently.
  - The record's Directory field is the caller's job (classification must
    not query process state).

USAGE:
  c := engine.NewClassifier(cfg)
  out := c.Classify("/usr/bin/gcc -c -o foo.o foo.c")

RELATED FILES:
  - internal/engine/runner.go
  - internal/model/types.go

MAINTENANCE:
  - Tune heuristics via config, not by editing patterns here.
*/

package engine

import (
	"regexp"
	"strings"

	"github.com/comptrace/comptrace/internal/config"
	"github.com/comptrace/comptrace/internal/model"
)

// Classifier decides whether a line of build output is a compile invocation.
// It is immutable after construction.
type Classifier struct {
	compiler   *regexp.Regexp
	source     *regexp.Regexp
	extensions []string
	deny       []string
	lastToken  bool
}

// NewClassifier compiles the configured pattern set into a Classifier.
func NewClassifier(cfg *config.Config) *Classifier {
	names := make([]string, len(cfg.Compilers))
	for i, name := range cfg.Compilers {
		names[i] = regexp.QuoteMeta(name)
	}
	// A compiler invocation is the basename preceded by start-of-line or
	// whitespace, optionally prefixed by a path, and followed by a space.
	// Anchoring on the token boundary keeps "libgcc.a" from matching.
	compiler := regexp.MustCompile(`(?:^|\s)(?:/\S*/)?(?:` + strings.Join(names, "|") + `) `)

	suffixes := make([]string, len(cfg.Extensions))
	for i, ext := range cfg.Extensions {
		suffixes[i] = regexp.QuoteMeta(strings.TrimPrefix(ext, "."))
	}
	// First token ending in a source extension, bounded by space or EOL.
	source := regexp.MustCompile(`(\S+\.(?:` + strings.Join(suffixes, "|") + `))(?: |$)`)

	return &Classifier{
		compiler:   compiler,
		source:     source,
		extensions: append([]string(nil), cfg.Extensions...),
		deny:       append([]string(nil), cfg.Deny...),
		lastToken:  cfg.Extract == config.ExtractLastToken,
	}
}

// Classify inspects one line of build output. The returned record's Command
// is the line verbatim, whitespace and all; Directory is left empty.
func (c *Classifier) Classify(line string) model.Outcome {
	var reasons []model.ReasonCode
	if !strings.Contains(line, " -c ") {
		reasons = append(reasons, model.MissingCompileFlag)
	}
	if !strings.Contains(line, " -o ") {
		reasons = append(reasons, model.MissingOutputFlag)
	}
	if !c.mentionsSource(line) {
		reasons = append(reasons, model.MissingSourceExtension)
	}
	if !c.compiler.MatchString(line) {
		reasons = append(reasons, model.NotACompilerInvocation)
	}

	if len(reasons) > 0 {
		if c.noisy(line) {
			reasons = append(reasons, model.LooksLikeBuildSystemNoise)
		}
		return model.Outcome{Reasons: reasons}
	}

	return model.Outcome{
		Accepted: true,
		Record: model.CompileRecord{
			Command: line,
			File:    c.extractSource(line),
		},
	}
}

func (c *Classifier) mentionsSource(line string) bool {
	for _, ext := range c.extensions {
		if strings.Contains(line, ext) {
			return true
		}
	}
	return false
}

func (c *Classifier) noisy(line string) bool {
	for _, marker := range c.deny {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// extractSource isolates the source-file path of an accepted line. Under the
// pattern policy it returns the first extension-bearing token, tolerating
// flags that trail the source file; under the last-token policy it returns
// whatever ends the line. Either policy may return "" without invalidating
// the compile step.
func (c *Classifier) extractSource(line string) string {
	if c.lastToken {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return ""
		}
		return fields[len(fields)-1]
	}
	m := c.source.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return m[1]
}
