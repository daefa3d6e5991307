package model

import "time"

// CredibilityResult is the outcome of scoring a single post
type CredibilityResult struct {
	Score   int      `json:"score"`             // Bounded 0-100
	Factors []string `json:"factors,omitempty"` // Human-readable contributing factors, in evaluation order
	Failed  bool     `json:"failed,omitempty"`  // Analysis failed; Score is a sentinel, not a real score
	Failure string   `json:"failure,omitempty"` // Failure reason when Failed is set
}

// ScoreSummary is the population-level distribution of credibility scores.
// Failed rows are counted separately and excluded from the numeric summary.
type ScoreSummary struct {
	Count  int     `json:"count"`
	Failed int     `json:"failed"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
}

// CredibilityReport holds one result per input post, positionally aligned
// with the input collection, plus the population summary.
type CredibilityReport struct {
	Results []CredibilityResult `json:"results"`
	Summary ScoreSummary        `json:"summary"`

	// Reporting view over the results: posts scoring under the
	// low-credibility threshold
	LowCredibilityCount   int     `json:"low_credibility_count"`
	LowCredibilityPercent float64 `json:"low_credibility_percent"`

	// LowExamples are the lowest-scoring posts, worst first, surfaced as
	// concrete examples in reports
	LowExamples []ScoredExample `json:"low_examples,omitempty"`
}

// ScoredExample is a post surfaced as a notable example in the report
type ScoredExample struct {
	Title   string   `json:"title"`
	Score   int      `json:"score"`
	Factors []string `json:"factors,omitempty"`
}

// Overview contains the descriptive statistics of the dataset
type Overview struct {
	TotalPosts       int         `json:"total_posts"`
	UniqueSubreddits int         `json:"unique_subreddits"`
	UniqueAuthors    int         `json:"unique_authors"`
	AverageScore     float64     `json:"average_score"`
	MaxScore         int         `json:"max_score"`
	DateRange        string      `json:"date_range,omitempty"`
	Subreddits       []BucketRow `json:"subreddits,omitempty"`
	TopWords         []BucketRow `json:"top_words,omitempty"`
}

// BucketRow is one labeled count in a distribution
type BucketRow struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Activity contains temporal posting patterns
type Activity struct {
	ByDay   []BucketRow `json:"by_day,omitempty"`   // YYYY-MM-DD
	ByWeek  []BucketRow `json:"by_week,omitempty"`  // YYYY-Www
	ByMonth []BucketRow `json:"by_month,omitempty"` // YYYY-MM
	ByDOW   []BucketRow `json:"by_dow,omitempty"`   // Monday..Sunday, always 7 rows
	ByHour  []BucketRow `json:"by_hour,omitempty"`  // 00..23, always 24 rows
}

// Topic is one extracted topic: its top terms and example post titles
type Topic struct {
	ID       int      `json:"id"`
	Terms    []string `json:"terms"`
	Examples []string `json:"examples,omitempty"`
}

// TrendingKeyword is a keyword whose usage spiked between adjacent periods
type TrendingKeyword struct {
	Word   string  `json:"word"`
	Period string  `json:"period"`
	Count  int     `json:"count"`
	Ratio  float64 `json:"ratio"` // Count relative to the previous period; 0 means the word is new
}

// Insights holds the optional LLM-generated prose summaries.
// Derived from aggregated results only; never affects scores.
type Insights struct {
	Provider    string `json:"provider,omitempty"`
	Model       string `json:"model,omitempty"`
	Fallback    bool   `json:"fallback"` // True when generated without a live provider
	Overview    string `json:"overview,omitempty"`
	Activity    string `json:"activity,omitempty"`
	Topics      string `json:"topics,omitempty"`
	Credibility string `json:"credibility,omitempty"`
}

// Report is the complete postlens analysis report
type Report struct {
	Source      string            `json:"source"` // File the dataset was read from
	GeneratedAt time.Time         `json:"generated_at"`
	Overview    Overview          `json:"overview"`
	Activity    Activity          `json:"activity"`
	Trending    []TrendingKeyword `json:"trending,omitempty"`
	Topics      []Topic           `json:"topics,omitempty"`
	Credibility CredibilityReport `json:"credibility"`
	Insights    *Insights         `json:"insights,omitempty"`
}
