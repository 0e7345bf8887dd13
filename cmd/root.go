package cmd

import (
	"fmt"
	"os"

	"dtrplay/internal/structures"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "config/config.yaml"

var flags structures.CliFlags

var rootCmd = &cobra.Command{
	Use:   "dtrplay",
	Short: "DTR Playground - record punch times and label them with the classifier backend",
	Long: `dtrplay serves the DTR Playground page and JSON API. Records and
schedules live in per-browser workspaces; labels come from the remote
classifier's logic1, logic2 and logic3 endpoints.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", defaultConfigPath, "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVar(&flags.DebugMode, "debug", false, "enable debug mode")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}
