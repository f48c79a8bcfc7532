package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored reports, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		reports, err := st.List(flagHistoryLimit)
		if err != nil {
			return fmt.Errorf("list reports: %w", err)
		}
		if len(reports) == 0 {
			fmt.Println("No reports yet. Run 'autofix run <path|url>' to create one.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCREATED\tFILES\tSCORE\tSOURCE")
		for _, r := range reports {
			score := "-"
			if r.Score >= 0 {
				score = fmt.Sprintf("%d", r.Score)
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
				r.ID[:min(8, len(r.ID))], r.CreatedAt.Local().Format("2006-01-02 15:04"), r.FileCount, score, r.Source)
		}
		return w.Flush()
	},
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a stored report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		// Resolve a short id first so rm accepts what history prints.
		r, err := st.Get(args[0])
		if err != nil {
			return err
		}
		if err := st.Delete(r.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", r.ID)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "maximum reports to list (0 for all)")
	historyCmd.AddCommand(historyRmCmd)
	rootCmd.AddCommand(historyCmd)
}
