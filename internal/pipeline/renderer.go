package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/postlens/postlens/internal/model"
)

// Renderer writes reports to files and the terminal
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// RenderMarkdown writes the report as a markdown document
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Post Analysis Report\n\n")
	fmt.Fprintf(&b, "**Source:** %s\n\n", report.Source)
	fmt.Fprintf(&b, "**Generated:** %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))

	o := report.Overview
	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "- Posts: %d\n", o.TotalPosts)
	fmt.Fprintf(&b, "- Communities: %d\n", o.UniqueSubreddits)
	fmt.Fprintf(&b, "- Authors: %d\n", o.UniqueAuthors)
	fmt.Fprintf(&b, "- Average score: %.1f (max %d)\n", o.AverageScore, o.MaxScore)
	if o.DateRange != "" {
		fmt.Fprintf(&b, "- Date range: %s\n", o.DateRange)
	}
	b.WriteString("\n")

	if len(o.Subreddits) > 0 {
		b.WriteString("### Top Communities\n\n")
		b.WriteString("| Community | Posts |\n|---|---|\n")
		for i, row := range o.Subreddits {
			if i >= 10 {
				break
			}
			fmt.Fprintf(&b, "| %s | %d |\n", row.Label, row.Count)
		}
		b.WriteString("\n")
	}

	if len(o.TopWords) > 0 {
		b.WriteString("### Frequent Words\n\n")
		var words []string
		for i, row := range o.TopWords {
			if i >= 10 {
				break
			}
			words = append(words, fmt.Sprintf("%s (%d)", row.Label, row.Count))
		}
		b.WriteString(strings.Join(words, ", ") + "\n\n")
	}

	if len(report.Trending) > 0 {
		b.WriteString("## Trending Keywords\n\n")
		b.WriteString("| Word | Period | Count | Growth |\n|---|---|---|---|\n")
		for _, tr := range report.Trending {
			growth := "new"
			if tr.Ratio > 0 {
				growth = fmt.Sprintf("%.1fx", tr.Ratio)
			}
			fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", tr.Word, tr.Period, tr.Count, growth)
		}
		b.WriteString("\n")
	}

	if len(report.Topics) > 0 {
		b.WriteString("## Topics\n\n")
		for _, topic := range report.Topics {
			fmt.Fprintf(&b, "**Topic %d:** %s\n\n", topic.ID, strings.Join(topic.Terms, ", "))
			for _, example := range topic.Examples {
				fmt.Fprintf(&b, "> %s\n\n", example)
			}
		}
	}

	c := report.Credibility
	b.WriteString("## Credibility\n\n")
	fmt.Fprintf(&b, "- Scored posts: %d", c.Summary.Count)
	if c.Summary.Failed > 0 {
		fmt.Fprintf(&b, " (%d failed)", c.Summary.Failed)
	}
	b.WriteString("\n")
	if c.Summary.Count > 0 {
		fmt.Fprintf(&b, "- Mean: %.1f, median: %.1f\n", c.Summary.Mean, c.Summary.Median)
		fmt.Fprintf(&b, "- Quartiles: Q1 %.1f, Q3 %.1f (min %.0f, max %.0f)\n",
			c.Summary.Q1, c.Summary.Q3, c.Summary.Min, c.Summary.Max)
		fmt.Fprintf(&b, "- Low credibility: %d posts (%.1f%%)\n",
			c.LowCredibilityCount, c.LowCredibilityPercent)
	}
	b.WriteString("\n")

	if len(c.LowExamples) > 0 {
		b.WriteString("### Lowest-Scoring Posts\n\n")
		for _, ex := range c.LowExamples {
			fmt.Fprintf(&b, "- **%d/100**: %s\n", ex.Score, ex.Title)
			for _, factor := range ex.Factors {
				fmt.Fprintf(&b, "  - %s\n", factor)
			}
		}
		b.WriteString("\n")
	}

	if report.Insights != nil {
		b.WriteString("## Insights\n\n")
		if report.Insights.Fallback {
			b.WriteString("_Generated without a live model; basic summaries only._\n\n")
		}
		for _, section := range []struct{ title, text string }{
			{"Dataset", report.Insights.Overview},
			{"Activity", report.Insights.Activity},
			{"Topics", report.Insights.Topics},
			{"Credibility", report.Insights.Credibility},
		} {
			if section.text != "" {
				fmt.Fprintf(&b, "**%s:** %s\n\n", section.title, section.text)
			}
		}
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("Scores describe language and sourcing patterns, not truth. ")
		b.WriteString("A low score flags posts worth a closer look, nothing more.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// RenderSummary prints the human-readable run summary to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Post Analysis Summary")
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()

	o := report.Overview
	fmt.Printf("Source:       %s\n", report.Source)
	fmt.Printf("Posts:        %d across %d communities (%d authors)\n",
		o.TotalPosts, o.UniqueSubreddits, o.UniqueAuthors)
	if o.DateRange != "" {
		fmt.Printf("Date range:   %s\n", o.DateRange)
	}
	fmt.Println()

	c := report.Credibility
	if c.Summary.Count > 0 {
		fmt.Printf("Credibility:  mean %.1f/100, median %.1f\n", c.Summary.Mean, c.Summary.Median)
		fmt.Printf("Low scores:   %d posts (%.1f%%)\n", c.LowCredibilityCount, c.LowCredibilityPercent)
		if c.Summary.Failed > 0 {
			fmt.Printf("Failures:     %d posts could not be scored\n", c.Summary.Failed)
		}
	}

	if len(report.Topics) > 0 {
		fmt.Println()
		fmt.Println("Topics:")
		for _, topic := range report.Topics {
			terms := topic.Terms
			if len(terms) > 5 {
				terms = terms[:5]
			}
			fmt.Printf("  %d. %s\n", topic.ID+1, strings.Join(terms, ", "))
		}
	}

	if len(report.Trending) > 0 {
		fmt.Println()
		fmt.Printf("Trending:     %d keyword spikes detected\n", len(report.Trending))
	}

	if report.Insights != nil && report.Insights.Credibility != "" {
		fmt.Println()
		fmt.Println("Assessment:")
		fmt.Printf("  %s\n", report.Insights.Credibility)
	}

	fmt.Println()
}
