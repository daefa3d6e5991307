package cred

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/postlens/postlens/internal/model"
	"github.com/postlens/postlens/internal/worker"
)

// scoreJob scores one post at a fixed position in the batch
type scoreJob struct {
	index  int
	post   model.Post
	engine *Engine
	seed   int64
}

type scoreResult struct {
	index  int
	result model.CredibilityResult
	err    error
}

// GetError returns the error from the score result
func (r *scoreResult) GetError() error { return r.err }

// Execute executes the score job
func (j *scoreJob) Execute(ctx context.Context) worker.Result {
	result, err := j.engine.AnalyzeSeeded(j.post, j.seed)
	return &scoreResult{index: j.index, result: result, err: err}
}

// BatchAnalyzer applies the rule engine to every post in a collection,
// producing one result per post in input order plus the score distribution.
type BatchAnalyzer struct {
	engine       *Engine
	workers      int
	baseSeed     int64
	lowThreshold int
	logger       *slog.Logger
}

// NewBatchAnalyzer creates a batch analyzer. Row i draws its jitter from
// baseSeed+i so a run with an explicit seed reproduces exactly. A zero
// baseSeed picks a time-based one, logged so the run can be replayed.
func NewBatchAnalyzer(engine *Engine, workers int, baseSeed int64, lowThreshold int, logger *slog.Logger) *BatchAnalyzer {
	if logger == nil {
		logger = slog.Default()
	}
	if lowThreshold <= 0 {
		lowThreshold = 40
	}
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
		logger.Info("using time-based jitter seed", "seed", baseSeed)
	}
	return &BatchAnalyzer{
		engine:       engine,
		workers:      workers,
		baseSeed:     baseSeed,
		lowThreshold: lowThreshold,
		logger:       logger,
	}
}

// ScoreAll scores every post concurrently. A per-post failure never aborts
// the batch: the row becomes a sentinel (score 0, failed flag, reason as
// its only factor) and scoring continues. Output is positionally aligned
// with the input.
func (b *BatchAnalyzer) ScoreAll(ctx context.Context, posts []model.Post) model.CredibilityReport {
	if len(posts) == 0 {
		return model.CredibilityReport{Results: []model.CredibilityResult{}}
	}

	b.logger.Info("scoring batch", "posts", len(posts), "workers", b.workers)

	pool := worker.NewPool(b.workers)
	pool.Start(ctx)

	for i, post := range posts {
		pool.Submit(&scoreJob{
			index:  i,
			post:   post,
			engine: b.engine,
			seed:   b.baseSeed + int64(i),
		})
	}

	results := make([]model.CredibilityResult, len(posts))
	scored := make([]bool, len(posts))
	for _, r := range pool.Wait() {
		sr := r.(*scoreResult)
		scored[sr.index] = true
		if sr.err != nil {
			b.logger.Warn("post analysis failed", "index", sr.index, "error", sr.err)
			results[sr.index] = model.CredibilityResult{
				Score:   0,
				Factors: []string{fmt.Sprintf("analysis failed: %v", sr.err)},
				Failed:  true,
				Failure: sr.err.Error(),
			}
			continue
		}
		results[sr.index] = sr.result
	}

	// Rows the pool never reached (caller cancelled mid-batch) become
	// failure sentinels, not silent zero scores
	if err := ctx.Err(); err != nil {
		for i := range results {
			if !scored[i] {
				results[i] = model.CredibilityResult{
					Score:   0,
					Factors: []string{fmt.Sprintf("analysis failed: %v", err)},
					Failed:  true,
					Failure: err.Error(),
				}
			}
		}
	}

	report := model.CredibilityReport{
		Results: results,
		Summary: summarize(results),
	}

	for _, r := range results {
		if !r.Failed && r.Score < b.lowThreshold {
			report.LowCredibilityCount++
		}
	}
	if report.Summary.Count > 0 {
		report.LowCredibilityPercent = float64(report.LowCredibilityCount) / float64(report.Summary.Count) * 100
	}
	if report.LowCredibilityCount > 0 {
		report.LowExamples = lowestExamples(posts, results, 3)
	}

	b.logger.Info("batch scored",
		"mean", report.Summary.Mean,
		"min", report.Summary.Min,
		"max", report.Summary.Max,
		"failed", report.Summary.Failed)

	return report
}

// lowestExamples picks the n lowest-scoring non-failed posts, worst first.
func lowestExamples(posts []model.Post, results []model.CredibilityResult, n int) []model.ScoredExample {
	type row struct {
		index int
		score int
	}
	var rows []row
	for i, r := range results {
		if !r.Failed {
			rows = append(rows, row{index: i, score: r.Score})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].score != rows[j].score {
			return rows[i].score < rows[j].score
		}
		return rows[i].index < rows[j].index
	})
	if n > len(rows) {
		n = len(rows)
	}

	examples := make([]model.ScoredExample, 0, n)
	for _, r := range rows[:n] {
		examples = append(examples, model.ScoredExample{
			Title:   posts[r.index].Title,
			Score:   r.score,
			Factors: results[r.index].Factors,
		})
	}
	return examples
}

// summarize computes the describe()-style distribution over non-failed
// scores. Failed rows contribute to the failure count only, never to the
// numeric summary.
func summarize(results []model.CredibilityResult) model.ScoreSummary {
	summary := model.ScoreSummary{}

	var scores []float64
	for _, r := range results {
		if r.Failed {
			summary.Failed++
			continue
		}
		scores = append(scores, float64(r.Score))
	}

	summary.Count = len(scores)
	if len(scores) == 0 {
		return summary
	}

	sort.Float64s(scores)
	summary.Min = scores[0]
	summary.Max = scores[len(scores)-1]
	summary.Mean = stat.Mean(scores, nil)
	summary.Q1 = stat.Quantile(0.25, stat.Empirical, scores, nil)
	summary.Median = stat.Quantile(0.5, stat.Empirical, scores, nil)
	summary.Q3 = stat.Quantile(0.75, stat.Empirical, scores, nil)

	return summary
}
