package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the agent a question",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			bot := buildBot(loadConfig())
			answer := bot.Respond(context.Background(), strings.Join(args, " "))
			fmt.Println(answer)
		},
	}
}
