// Package pipeline orchestrates the complete analysis from raw posts to a
// rendered report.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/postlens/postlens/internal/cred"
	"github.com/postlens/postlens/internal/llm"
	"github.com/postlens/postlens/internal/model"
	"github.com/postlens/postlens/internal/sentiment"
	"github.com/postlens/postlens/internal/stats"
	"github.com/postlens/postlens/internal/store"
	"github.com/postlens/postlens/internal/topics"
)

// Pipeline runs the full analysis over a post collection
type Pipeline struct {
	batch      *cred.BatchAnalyzer
	summarizer *llm.Summarizer // Optional (nil when LLM disabled and fallbacks not wanted)
	renderer   *Renderer
	db         *store.DB // Optional run persistence (nil when disabled)
	config     *model.Config
	logger     *slog.Logger
}

// New creates a pipeline from configuration. The caller owns the store
// handle's lifecycle via Close.
func New(cfg *model.Config, logger *slog.Logger) (*Pipeline, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	lex := cred.DefaultLexicon().WithDomains(cfg.Credibility.TrustedDomains, cfg.Credibility.UntrustedDomains)
	engine, err := cred.NewEngine(lex, sentiment.NewVADER(), cred.Options{
		DisableJitter: cfg.Credibility.DisableJitter,
		Seed:          cfg.Credibility.JitterSeed,
	})
	if err != nil {
		return nil, fmt.Errorf("credibility engine: %w", err)
	}

	summarizer, err := llm.NewSummarizer(llm.ConfigFromModel(cfg.LLM), logger)
	if err != nil {
		return nil, fmt.Errorf("llm summarizer: %w", err)
	}

	var db *store.DB
	if cfg.Store.Enabled {
		db, err = store.Open(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("run store: %w", err)
		}
	}

	return &Pipeline{
		batch:      cred.NewBatchAnalyzer(engine, cfg.Workers, cfg.Credibility.JitterSeed, cfg.Credibility.LowThreshold, logger),
		summarizer: summarizer,
		renderer:   NewRenderer(cfg.Output.IncludeFooter),
		db:         db,
		config:     cfg,
		logger:     logger,
	}, nil
}

// Close releases the pipeline's resources.
func (p *Pipeline) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// Analyze runs the complete analysis and returns the report. withInsights
// controls whether the LLM insight stage runs at all.
func (p *Pipeline) Analyze(ctx context.Context, source string, posts []model.Post, withInsights bool) (*model.Report, error) {
	if len(posts) == 0 {
		return nil, fmt.Errorf("no posts to analyze")
	}

	p.logger.Info("starting analysis", "source", source, "posts", len(posts))

	// 1. Descriptive statistics
	overview := stats.Overview(posts, 20)

	// 2. Temporal activity patterns
	activity := stats.ActivityPatterns(posts)

	// 3. Trending keywords
	trending := stats.Trending(posts, stats.TrendOptions{
		MinCount: p.config.Trends.MinCount,
		Ratio:    p.config.Trends.Ratio,
	})

	// 4. Topic extraction
	topicList, err := topics.Extract(posts, topics.Options{
		NumTopics: p.config.Topics.Count,
		MaxTopics: p.config.Topics.MaxCount,
	})
	if err != nil {
		// Topics are informative, not load-bearing
		p.logger.Warn("topic extraction failed", "error", err)
		topicList = nil
	}

	// 5. Credibility scoring
	credibility := p.batch.ScoreAll(ctx, posts)

	report := &model.Report{
		Source:      source,
		GeneratedAt: time.Now().UTC(),
		Overview:    overview,
		Activity:    activity,
		Trending:    trending,
		Topics:      topicList,
		Credibility: credibility,
	}

	// 6. LLM insights last, over aggregates only (never affects scores)
	if withInsights {
		report.Insights = p.summarizer.Insights(ctx, report)
	}

	// 7. Persist the run when a store is configured
	if p.db != nil {
		runID, err := p.db.SaveRun(ctx, report, posts)
		if err != nil {
			p.logger.Warn("failed to persist run", "error", err)
		} else {
			p.logger.Info("run persisted", "run_id", runID)
		}
	}

	return report, nil
}

// History lists persisted runs, newest first. Errors when no store is
// configured.
func (p *Pipeline) History(ctx context.Context, limit int) ([]store.Run, error) {
	if p.db == nil {
		return nil, fmt.Errorf("run store is not enabled (set store.enabled in config)")
	}
	return p.db.History(ctx, limit)
}

// RenderReport renders the report to the configured outputs.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath, mdPath string) error {
	if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if p.config.Output.Verbose {
			fmt.Printf("✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if p.config.Output.Verbose {
			fmt.Printf("✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	return nil
}

// PrintSummary writes the human-readable run summary to stdout.
func (p *Pipeline) PrintSummary(report *model.Report) {
	p.renderer.RenderSummary(report)
}
