package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/postlens/postlens/internal/ingest"
	"github.com/postlens/postlens/internal/logging"
	"github.com/postlens/postlens/internal/model"
	"github.com/postlens/postlens/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	workers     int
	topicCount  int
	jitterSeed  int64
	noJitter    bool
	noFooter    bool
	llmEnabled  bool
	llmProvider string
	llmModel    string
	storeRuns   bool
	storePath   string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a JSONL file of posts and generate a report",
	Long: `Analyze reads posts from a JSONL file (one JSON object per line,
optionally wrapped in a {"data": {...}} envelope) and produces:
- Descriptive statistics and posting activity patterns
- Topic extraction and trending keyword detection
- A transparent 0-100 credibility score per post, with factors

Example:
  postlens analyze posts.jsonl
  postlens analyze posts.jsonl --json report.json --md report.md
  postlens analyze posts.jsonl --llm --llm-provider openai --llm-model gpt-4o-mini
  postlens analyze posts.jsonl --no-jitter --seed 42`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "report.json", "output JSON path")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Analysis flags
	analyzeCmd.Flags().IntVar(&workers, "workers", 4, "concurrent scoring workers")
	analyzeCmd.Flags().IntVar(&topicCount, "topics", 5, "number of topics to extract")
	analyzeCmd.Flags().Int64Var(&jitterSeed, "seed", 0, "seed for score jitter (0 = time-based)")
	analyzeCmd.Flags().BoolVar(&noJitter, "no-jitter", false, "disable score jitter for deterministic runs")

	// LLM flags
	analyzeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM insight generation")
	analyzeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, ollama)")
	analyzeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")

	// Persistence flags
	analyzeCmd.Flags().BoolVar(&storeRuns, "store", false, "persist the run to the local database")
	analyzeCmd.Flags().StringVar(&storePath, "store-path", "postlens.db", "run database path")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := context.Background()

	cfg := buildConfig()
	logger := logging.New(cfg.LogLevel)

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		// Get API key from environment
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	posts, err := ingest.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read posts: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Loaded %d posts from %s\n", len(posts), path)
	}

	p, err := pipeline.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize pipeline: %w", err)
	}
	defer func() { _ = p.Close() }()

	report, err := p.Analyze(ctx, path, posts, llmEnabled)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if err := p.RenderReport(report, outJSON, outMD); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	p.PrintSummary(report)

	return nil
}

// buildConfig merges defaults, config file values, and flags
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	// Config file / env overrides
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid configuration ignored: %v\n", err)
		cfg = model.DefaultConfig()
	}

	// Flag overrides
	cfg.Workers = workers
	cfg.Topics.Count = topicCount
	cfg.Credibility.JitterSeed = jitterSeed
	cfg.Credibility.DisableJitter = noJitter
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	if storeRuns {
		cfg.Store.Enabled = true
		cfg.Store.Path = storePath
	}

	return cfg
}
