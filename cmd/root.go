// Package cmd holds the brainbot command tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dream2Nightmare/brainbot/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "brainbot",
	Short: "A local companion that learns from what it sees",
	Long: "brainbot watches your folders, reflects on what it reads, dreams its\n" +
		"short-term memory into a long-term archive, and answers questions from\n" +
		"what it has learned. Everything stays on your machine.",
}

// Execute runs the command tree.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(dreamCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(trainCmd())
	rootCmd.AddCommand(inquireCmd())
	rootCmd.AddCommand(onboardCmd())
}

// resolveConfigPath honors --config, then the default location.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultPath()
}

// loadConfig loads the resolved config or exits with a readable error.
func loadConfig() *config.Config {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
