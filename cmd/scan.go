package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dream2Nightmare/brainbot/internal/scan"
)

func scanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan [root...]",
		Short: "Run one scan pass over the watched (or given) folders",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := loadConfig()
			roots := cfg.ScanRoots
			if len(args) > 0 {
				roots = args
			}

			bot := buildBot(cfg)
			svc := scan.NewService(scan.Config{Roots: roots}, bot)
			ingested := svc.Cycle(context.Background())
			fmt.Printf("Reflected on %d new files.\n", ingested)
		},
	}
}
