package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dream2Nightmare/brainbot/internal/config"
)

func onboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "onboard",
		Short: "Interactive setup wizard — watched folders, dreams, cravings",
		Run: func(cmd *cobra.Command, args []string) {
			runOnboard()
		},
	}
}

func runOnboard() {
	fmt.Println("╔══════════════════════════════════════════════╗")
	fmt.Println("║          brainbot — Setup Wizard             ║")
	fmt.Println("╚══════════════════════════════════════════════╝")
	fmt.Println()

	cfgPath := resolveConfigPath()

	cfg := config.Default()
	if _, err := os.Stat(cfgPath); err == nil {
		fmt.Printf("Found existing config at %s\n", cfgPath)
		useExisting, err := promptConfirm("Use existing config as base?", true)
		if err != nil {
			fmt.Println("Cancelled.")
			return
		}
		if useExisting {
			if loaded, err := config.Load(cfgPath); err == nil {
				cfg = loaded
			} else {
				fmt.Printf("Warning: could not load existing config: %v\n", err)
			}
		}
	}

	base, err := promptString("Where should memories live?", "Base directory for all stores", cfg.BaseDir)
	if err != nil {
		fmt.Println("Cancelled.")
		return
	}
	cfg.BaseDir = base

	roots, err := promptString("Which folders should the agent watch?",
		"Comma-separated paths scanned during idle time", strings.Join(cfg.ScanRoots, ","))
	if err != nil {
		fmt.Println("Cancelled.")
		return
	}
	cfg.ScanRoots = nil
	for _, r := range strings.Split(roots, ",") {
		if r = strings.TrimSpace(r); r != "" {
			cfg.ScanRoots = append(cfg.ScanRoots, r)
		}
	}

	interval, err := promptSelect("How often should it dream?", []SelectOption[string]{
		{Label: "Every 15 minutes", Value: "15m"},
		{Label: "Every 30 minutes", Value: "30m"},
		{Label: "Every hour", Value: "1h"},
		{Label: "Every 4 hours", Value: "4h"},
	}, 1)
	if err != nil {
		fmt.Println("Cancelled.")
		return
	}
	cfg.DreamInterval = interval
	cfg.DreamCron = ""

	craving, err := promptConfirm("Allow it to speak and seek on its own?", cfg.Craving.Enabled)
	if err != nil {
		fmt.Println("Cancelled.")
		return
	}
	cfg.Craving.Enabled = craving

	if craving {
		provider, err := promptSelect("How should it seek answers outside memory?", []SelectOption[string]{
			{Label: "Headless browser", Value: "browser"},
			{Label: "Search API", Value: "http"},
			{Label: "Not at all", Value: ""},
		}, 2)
		if err != nil {
			fmt.Println("Cancelled.")
			return
		}
		cfg.Seeker.Provider = provider
		if provider == "http" {
			endpoint, err := promptString("Search API endpoint", "", cfg.Seeker.Endpoint)
			if err != nil {
				fmt.Println("Cancelled.")
				return
			}
			cfg.Seeker.Endpoint = endpoint
		}
	}

	gw, err := promptConfirm("Expose the local gateway for a front end?", cfg.Gateway.Enabled)
	if err != nil {
		fmt.Println("Cancelled.")
		return
	}
	cfg.Gateway.Enabled = gw

	if err := config.Save(cfgPath, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Printf("Config written to %s\n", cfgPath)
	fmt.Println("Start the agent with:  brainbot run")
}
