// Package cli implements the Millrun command-line interface using Cobra.
// Each subcommand maps to one workflow: solve a scenario file, generate
// demo data, or serve the HTTP API.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "millrun",
	Short: "Millrun — Production schedule optimization",
	Long: `Millrun builds optimized production schedules for job shops:
machines with capabilities, products with multi-step recipes, orders with
deadlines, and sequence-dependent setup times between product changeovers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
