package cmd

import (
	"fmt"
	"os"

	"github.com/Dream2Nightmare/brainbot/internal/agent"
	"github.com/Dream2Nightmare/brainbot/internal/config"
	"github.com/Dream2Nightmare/brainbot/internal/extract"
	"github.com/Dream2Nightmare/brainbot/internal/seeker"
)

// buildBot wires a bot for the given config, exiting on failure. CLI commands
// share the same stores the running agent uses; whole-file writes keep
// cross-process interleavings coarse, but concurrent writers can still lose
// updates.
func buildBot(cfg *config.Config) *agent.Bot {
	extractor := &extract.Extractor{
		Audio: &extract.FFmpegExtractor{},
	}
	bot, err := agent.New(cfg.BaseDir, extractor, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return bot
}

// buildSeeker returns the configured search collaborator, or nil when
// disabled.
func buildSeeker(cfg *config.Config) seeker.Seeker {
	switch cfg.Seeker.Provider {
	case "browser":
		return seeker.NewBrowserProvider(cfg.Seeker.Endpoint, "", "")
	case "http":
		return seeker.NewHTTPProvider(cfg.Seeker.Endpoint, cfg.Seeker.APIKey)
	default:
		return nil
	}
}
