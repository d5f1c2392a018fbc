package cli

import (
	"fmt"
	"os"

	"github.com/comptrace/comptrace/internal/config"
	"github.com/comptrace/comptrace/internal/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default comptrace.yaml into the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		const path = "comptrace.yaml"

		if !initForce {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
		}

		data, err := yaml.Marshal(config.DefaultConfig())
		if err != nil {
			return fmt.Errorf("failed to render default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}

		output.Logger.Info("Wrote default config", "path", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing comptrace.yaml")
	rootCmd.AddCommand(initCmd)
}
