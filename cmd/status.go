package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the agent's memory state",
		Run: func(cmd *cobra.Command, args []string) {
			bot := buildBot(loadConfig())
			st := bot.Status()

			if jsonOutput {
				data, _ := json.MarshalIndent(st, "", "  ")
				fmt.Println(string(data))
				return
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Short-term reflections:\t%d\n", st.ShortTermCount)
			fmt.Fprintf(w, "Long-term archive:\t%.2f MB\n", float64(st.LongTermBytes)/(1024*1024))
			fmt.Fprintf(w, "Seen paths:\t%d\n", st.SeenPaths)
			fmt.Fprintf(w, "Trained pairs:\t%d\n", st.TrainedPairs)
			fmt.Fprintf(w, "Open questions:\t%d\n", st.Questions)
			fmt.Fprintf(w, "Training ritual:\t%v\n", st.Training)
			fmt.Fprintf(w, "Last spoke:\t%s\n", st.LastSpoke.Format(time.RFC3339))
			w.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}
