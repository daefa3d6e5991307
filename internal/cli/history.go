package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/postlens/postlens/internal/store"
)

var (
	historyLimit int
	historyPath  string
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List persisted analysis runs",
	Long: `History lists past runs saved with the --store flag, newest first.

Example:
  postlens analyze posts.jsonl --store
  postlens history --limit 10`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum runs to list")
	historyCmd.Flags().StringVar(&historyPath, "store-path", "postlens.db", "run database path")
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := store.Open(historyPath)
	if err != nil {
		return fmt.Errorf("open run store: %w", err)
	}
	defer func() { _ = db.Close() }()

	runs, err := db.History(context.Background(), historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded. Use 'postlens analyze <file> --store' to save one.")
		return nil
	}

	fmt.Printf("%-5s %-30s %-8s %-10s %-10s %s\n", "ID", "SOURCE", "POSTS", "MEAN", "LOW%", "WHEN")
	for _, run := range runs {
		fmt.Printf("%-5d %-30s %-8d %-10.1f %-10.1f %s\n",
			run.ID,
			truncate(run.Source, 30),
			run.PostCount,
			run.MeanScore,
			run.LowCredPercent,
			run.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
