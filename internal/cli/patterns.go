/*
PURPOSE:
  Defines the 'patterns' subcommand.
  Helps debug which heuristics a run would actually apply.

REQUIREMENTS:
  User-specified:
  - Show the effective compiler names, extensions, and denylist.

  Implementation-discovered:
  - Useful validation step before wrapping a long build.

ARCHITECTURE INTEGRATION:
  - Uses: internal/config (same load/override path as 'run')

ERROR HANDLING:
  - Prints error if the config file is invalid.

IMPLEMENTATION RULES:
  - Simple output to stdout.

USAGE:
  comptrace patterns --config ci.yaml

RELATED FILES:
  - internal/config/config.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Print the effective classification patterns",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Println("compilers:")
		for _, name := range cfg.Compilers {
			fmt.Printf("- %s\n", name)
		}
		fmt.Println("extensions:")
		for _, ext := range cfg.Extensions {
			fmt.Printf("- %s\n", ext)
		}
		fmt.Println("deny:")
		for _, marker := range cfg.Deny {
			fmt.Printf("- %s\n", marker)
		}
		fmt.Printf("extract: %s\n", cfg.Extract)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(patternsCmd)
	addClassifyFlags(patternsCmd)
}
