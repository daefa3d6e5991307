package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/postlens/postlens/internal/model"
)

const systemPrompt = "You are a data analyst summarizing aggregated social media statistics. " +
	"Describe only the numbers given to you. Do not speculate about events outside the data."

// Summarizer generates prose insights for a report. When no provider is
// configured or the provider is unreachable it falls back to deterministic
// placeholder text, flagged as such.
type Summarizer struct {
	provider Provider
	config   Config
	limiter  *rate.Limiter
	cache    *gocache.Cache
	logger   *slog.Logger
}

// NewSummarizer creates a summarizer from configuration. An empty provider
// name yields a summarizer that always falls back.
func NewSummarizer(config Config, logger *slog.Logger) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}

	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 2
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Summarizer{
		provider: provider,
		config:   config,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		cache:    gocache.New(time.Hour, 10*time.Minute),
		logger:   logger,
	}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider's name, or "" when disabled
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// Insights generates all prose sections for the report. It never returns an
// error for provider problems; those degrade to fallback text.
func (s *Summarizer) Insights(ctx context.Context, report *model.Report) *model.Insights {
	insights := &model.Insights{
		Provider: s.ProviderName(),
		Model:    s.config.Model,
	}

	live := s.provider != nil && s.provider.IsAvailable(ctx)
	if !live {
		if s.provider != nil {
			s.logger.Warn("llm provider unavailable, using fallback insights",
				"provider", s.provider.Name())
		}
		insights.Fallback = true
		insights.Overview = fallbackOverview(report)
		insights.Activity = fallbackActivity(report)
		insights.Topics = fallbackTopics(report)
		insights.Credibility = fallbackCredibility(report)
		return insights
	}

	insights.Overview = s.section(ctx, report, "overview", overviewPrompt(report), fallbackOverview)
	insights.Activity = s.section(ctx, report, "activity", activityPrompt(report), fallbackActivity)
	insights.Topics = s.section(ctx, report, "topics", topicsPrompt(report), fallbackTopics)
	insights.Credibility = s.section(ctx, report, "credibility", credibilityPrompt(report), fallbackCredibility)

	return insights
}

// section runs one prompt through the provider with caching and rate
// limiting, degrading to the fallback when the call fails.
func (s *Summarizer) section(ctx context.Context, report *model.Report, kind, prompt string, fallback func(*model.Report) string) string {
	key := s.cacheKey(report, kind)
	if cached, found := s.cache.Get(key); found {
		return cached.(string)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		s.logger.Warn("rate limiter interrupted", "section", kind, "error", err)
		return fallback(report)
	}

	resp, err := s.provider.Generate(ctx, GenerateRequest{
		System:    systemPrompt,
		Prompt:    prompt,
		Model:     s.config.Model,
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		s.logger.Warn("llm generation failed", "section", kind, "error", err)
		return fallback(report)
	}

	s.cache.Set(key, resp.Text, gocache.DefaultExpiration)
	return resp.Text
}

// cacheKey fingerprints the dataset identity plus the section kind so a
// re-run over the same data reuses earlier completions.
func (s *Summarizer) cacheKey(report *model.Report, kind string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%s|%s|%s",
		report.Source,
		report.Overview.TotalPosts,
		report.Overview.DateRange,
		kind,
		s.config.Model)
	return "postlens:v1:" + hex.EncodeToString(h.Sum(nil))
}

// Prompt builders

func overviewPrompt(report *model.Report) string {
	o := report.Overview
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this social media dataset overview:\n\n")
	fmt.Fprintf(&b, "Total posts: %d\n", o.TotalPosts)
	fmt.Fprintf(&b, "Unique communities: %d\n", o.UniqueSubreddits)
	fmt.Fprintf(&b, "Unique authors: %d\n", o.UniqueAuthors)
	fmt.Fprintf(&b, "Average score: %.1f (max %d)\n", o.AverageScore, o.MaxScore)
	if o.DateRange != "" {
		fmt.Fprintf(&b, "Date range: %s\n", o.DateRange)
	}
	if len(o.Subreddits) > 0 {
		b.WriteString("\nTop communities:\n")
		for i, row := range o.Subreddits {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&b, "- %s: %d posts\n", row.Label, row.Count)
		}
	}
	b.WriteString("\nWrite a brief 3-5 sentence summary of the dataset's composition. " +
		"Format your response as a paragraph without bulletpoints.")
	return b.String()
}

func activityPrompt(report *model.Report) string {
	a := report.Activity
	var b strings.Builder
	b.WriteString("Analyze this posting activity data:\n\n")

	if peak := peakBucket(a.ByDay); peak != nil {
		fmt.Fprintf(&b, "Peak activity: %d posts on %s\n", peak.Count, peak.Label)
	}
	if len(a.ByDOW) > 0 {
		b.WriteString("\nPosts by day of week:\n")
		for _, row := range a.ByDOW {
			fmt.Fprintf(&b, "- %s: %d\n", row.Label, row.Count)
		}
	}
	if peak := peakBucket(a.ByHour); peak != nil {
		fmt.Fprintf(&b, "\nBusiest hour: %s:00 with %d posts\n", peak.Label, peak.Count)
	}

	b.WriteString("\nWrite a brief 3-5 sentence summary explaining the overall posting pattern, " +
		"highlighting notable peaks, weekday versus weekend differences, and the general trend. " +
		"Format your response as a paragraph without bulletpoints.")
	return b.String()
}

func topicsPrompt(report *model.Report) string {
	var b strings.Builder
	b.WriteString("Analyze these topic modeling results:\n\n")
	for _, topic := range report.Topics {
		terms := topic.Terms
		if len(terms) > 7 {
			terms = terms[:7]
		}
		fmt.Fprintf(&b, "Topic %d: %s\n", topic.ID, strings.Join(terms, ", "))
		if len(topic.Examples) > 0 {
			fmt.Fprintf(&b, "Example: %q\n\n", topic.Examples[0])
		}
	}
	b.WriteString("\nWrite a 3-5 sentence summary explaining the main themes being discussed, " +
		"how they relate to each other, and what they might reveal about the community's interests. " +
		"Format your response as a paragraph without bulletpoints.")
	return b.String()
}

func credibilityPrompt(report *model.Report) string {
	c := report.Credibility
	var b strings.Builder
	b.WriteString("Analyze this post credibility data:\n\n")
	fmt.Fprintf(&b, "Average credibility score: %.1f/100\n", c.Summary.Mean)
	fmt.Fprintf(&b, "Posts with low credibility: %d (%.1f%%)\n",
		c.LowCredibilityCount, c.LowCredibilityPercent)

	if len(c.LowExamples) > 0 {
		b.WriteString("\nExamples of potentially problematic posts:\n")
		for i, ex := range c.LowExamples {
			fmt.Fprintf(&b, "Example %d: %q (Score: %d/100)\n", i+1, ex.Title, ex.Score)
			if len(ex.Factors) > 0 {
				fmt.Fprintf(&b, "Factors: %s\n", strings.Join(ex.Factors, "; "))
			}
		}
	}

	b.WriteString("\nWrite a brief 3-5 sentence summary of the credibility analysis results, " +
		"covering overall credibility, patterns in low credibility content, and recommendations " +
		"for users interpreting this content. " +
		"Format your response as a paragraph without bulletpoints.")
	return b.String()
}

// Fallback texts, used when no provider is live

func fallbackOverview(report *model.Report) string {
	o := report.Overview
	if o.TotalPosts == 0 {
		return "No posts available for analysis."
	}
	text := fmt.Sprintf("The dataset contains %d posts from %d communities and %d authors, "+
		"with an average score of %.1f.", o.TotalPosts, o.UniqueSubreddits, o.UniqueAuthors, o.AverageScore)
	if o.DateRange != "" {
		text += fmt.Sprintf(" Posts span %s.", o.DateRange)
	}
	return text
}

func fallbackActivity(report *model.Report) string {
	peak := peakBucket(report.Activity.ByDay)
	if peak == nil {
		return "No timestamped posts available for activity analysis."
	}
	text := fmt.Sprintf("Posting activity peaked on %s with %d posts.", peak.Label, peak.Count)
	if hour := peakBucket(report.Activity.ByHour); hour != nil {
		text += fmt.Sprintf(" The busiest hour of day was %s:00.", hour.Label)
	}
	return text
}

func fallbackTopics(report *model.Report) string {
	if len(report.Topics) == 0 {
		return "No topic data available for analysis."
	}
	var parts []string
	for i, topic := range report.Topics {
		if i >= 3 {
			break
		}
		terms := topic.Terms
		if len(terms) > 3 {
			terms = terms[:3]
		}
		parts = append(parts, strings.Join(terms, "/"))
	}
	return fmt.Sprintf("The %d extracted topics center on %s.", len(report.Topics), strings.Join(parts, ", "))
}

func fallbackCredibility(report *model.Report) string {
	c := report.Credibility
	if c.Summary.Count == 0 {
		return "No credibility data available for analysis."
	}
	return fmt.Sprintf("The average credibility score is %.1f/100, with %d posts (%.1f%%) "+
		"scoring below the low credibility threshold. Posts with emotional language or "+
		"unverified claims should be read with appropriate skepticism.",
		c.Summary.Mean, c.LowCredibilityCount, c.LowCredibilityPercent)
}

func peakBucket(rows []model.BucketRow) *model.BucketRow {
	var peak *model.BucketRow
	for i := range rows {
		if peak == nil || rows[i].Count > peak.Count {
			peak = &rows[i]
		}
	}
	return peak
}
