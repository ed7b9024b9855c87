package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dream2Nightmare/brainbot/internal/inquiry"
)

func inquireCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inquire",
		Short: "Follow the agent's open question chain through permanent memory",
		Run: func(cmd *cobra.Command, args []string) {
			bot := buildBot(loadConfig())
			walker := inquiry.NewWalker(bot.Answered(), bot.InquiryCursor())

			asked := walker.Walk()
			if len(asked) == 0 {
				fmt.Println("No permanent memory to inquire into yet.")
				return
			}
			for _, q := range asked {
				fmt.Printf("? %s\n", q)
			}
		},
	}
}
