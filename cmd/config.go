package cmd

import (
	"fmt"

	"dtrplay/internal/providers"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

// runConfig shows the config after env overrides and defaults are applied.
func runConfig(cmd *cobra.Command, args []string) error {
	conf, err := providers.NewConfigProvider(&flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	out, err := yaml.Marshal(conf)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
