// Package cmd provides the CLI commands for h2-site-plan.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"h2-site-plan/core/engine"
	"h2-site-plan/internal/config"
	"h2-site-plan/internal/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "h2-site-plan",
	Short: "Select green-hydrogen infrastructure sites under a budget",
	Long: `h2-site-plan is a site-selection optimization tool for green-hydrogen
infrastructure planning.

It scores candidate sites on cost, renewable-energy proximity, demand
proximity, and risk, then selects the budget-respecting subset that
maximizes total utility, with financial projections to justify the choice.

Examples:
  h2-site-plan optimize sites.csv --budget 2000
  h2-site-plan optimize sites.csv --scenario plan.hcl --format json`,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.h2-site-plan.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	// Initialize logging
	cfg := config.Get()
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("h2-site-plan version %s\n", engine.Version)
	},
}
