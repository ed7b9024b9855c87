package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dream2Nightmare/brainbot/internal/dream"
)

func dreamCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dream",
		Short: "Consolidate short-term memory into the long-term archive now",
		Run: func(cmd *cobra.Command, args []string) {
			bot := buildBot(loadConfig())
			report, err := dream.NewEngine(bot).Dream(context.Background())
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			if report.Consolidated == 0 {
				fmt.Println("Nothing to dream about.")
				return
			}
			fmt.Printf("Dreamed %s: %d reflections, %d pairs, %d questions.\n",
				report.Tag, report.Consolidated, report.PairsTrained, report.Questions)
		},
	}
}
