/*
PURPOSE:
  Defines the configuration structure and loading logic for comptrace.
  All classification heuristics (compiler names, source extensions, the
  noise denylist) are tunable here rather than hard-coded.

REQUIREMENTS:
  User-specified:
  - Allow configuration of the output path, compiler basenames, source
    extensions, the noise denylist, and the extraction policy.

  Implementation-discovered:
  - Needs to support YAML parsing.
  - The denylist defaults (CMakeFiles, .make, target) are deliberately
    generic and can falsely flag legitimate paths; keeping them in config
    lets operators tune them per project.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine
  - Dependencies: gopkg.in/yaml.v3

ERROR HANDLING:
  - Returns explicit error if a config file is invalid.
  - Missing config file is not an error (falls back to defaults).

IMPLEMENTATION RULES:
  - Config struct tags should support yaml.
  - Defaults must reproduce the classic cc/gcc/clang detection set.

USAGE:
  cfg, err := config.Load("comptrace.yaml")

RELATED FILES:
  - internal/cli/root.go
  - internal/engine/classifier.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Extraction policies for the source-file field of a detected compile step.
const (
	// ExtractPattern takes the first token ending in a known source
	// extension. Tolerates flags trailing the source file.
	ExtractPattern = "pattern"
	// ExtractLastToken takes the last whitespace-separated token on the
	// line. Fragile when include paths or flags trail the source file.
	ExtractLastToken = "last-token"
)

// Config represents the full configuration for comptrace.
type Config struct {
	// Output is the path of the generated compile_commands.json.
	Output string `yaml:"output"`
	// Compilers are the basenames recognized as compiler invocations.
	Compilers []string `yaml:"compilers"`
	// Extensions are the source-file suffixes a compile line must mention.
	Extensions []string `yaml:"extensions"`
	// Deny lists substrings marking build-tool rule output. Matching lines
	// are annotated in diagnostics; the denylist never vetoes acceptance.
	Deny []string `yaml:"deny"`
	// Extract selects the source-file extraction policy.
	Extract string `yaml:"extract"`
	// Report optionally names a CSV file receiving one row per classified
	// line, for inspecting why lines were accepted or rejected.
	Report string `yaml:"report"`
	// Verbose enables per-line rejection logging.
	Verbose bool `yaml:"verbose"`
	// EchoStderr relays the child's standard error verbatim instead of
	// wrapping it in log records.
	EchoStderr bool `yaml:"echo_stderr"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Output:     "compile_commands.json",
		Compilers:  []string{"cc", "c++", "gcc", "g++", "clang", "clang++"},
		Extensions: []string{".c", ".cpp", ".cc", ".cxx"},
		Deny:       []string{"CMakeFiles", ".make", "target"},
		Extract:    ExtractPattern,
		EchoStderr: true,
	}
}

// Load reads configuration from a file.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file is found, returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
	} else {
		defaults := []string{"comptrace.yaml", ".comptrace.yaml"}
		found := false
		for _, name := range defaults {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name // record which file we loaded
				found = true
				break
			}
		}
		if !found {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the config after file load and flag overrides resolve.
func (c *Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("output path must not be empty")
	}
	if len(c.Compilers) == 0 {
		return fmt.Errorf("at least one compiler basename is required")
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("at least one source extension is required")
	}
	if c.Extract != ExtractPattern && c.Extract != ExtractLastToken {
		return fmt.Errorf("unknown extraction policy %q (want %q or %q)", c.Extract, ExtractPattern, ExtractLastToken)
	}
	return nil
}
