package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/postlens/postlens/internal/ingest"
)

var (
	demoCount int
	demoSeed  int64
	demoOut   string
)

// demoCmd represents the demo command
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Generate a synthetic JSONL dataset for experimentation",
	Long: `Demo writes a deterministic synthetic dataset in the same JSONL
format analyze reads, so the full pipeline can be tried without real data.

Example:
  postlens demo --count 200 --out demo.jsonl
  postlens analyze demo.jsonl --no-jitter`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().IntVar(&demoCount, "count", 100, "number of posts to generate")
	demoCmd.Flags().Int64Var(&demoSeed, "seed", 1, "generator seed")
	demoCmd.Flags().StringVar(&demoOut, "out", "demo.jsonl", "output path")
}

func runDemo(cmd *cobra.Command, args []string) (err error) {
	posts := ingest.Synthetic(demoCount, demoSeed)

	f, err := os.Create(demoOut)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output: %w", closeErr)
		}
	}()

	enc := json.NewEncoder(f)
	for _, p := range posts {
		envelope := map[string]any{
			"kind": "t3",
			"data": map[string]any{
				"id":          p.ID,
				"subreddit":   p.Subreddit,
				"title":       p.Title,
				"selftext":    p.SelfText,
				"author":      p.Author,
				"score":       p.Score,
				"created_utc": p.CreatedUTC,
			},
		}
		if err := enc.Encode(envelope); err != nil {
			return fmt.Errorf("write post: %w", err)
		}
	}

	fmt.Printf("✓ Wrote %d synthetic posts: %s\n", len(posts), demoOut)
	return nil
}
