package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func trainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train <folder>",
		Short: "Feed a folder of training material to the agent",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			bot := buildBot(loadConfig())
			ingested, err := bot.TrainFolder(context.Background(), args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Trained on %d files. Run `brainbot dream` to consolidate.\n", ingested)
		},
	}
}
