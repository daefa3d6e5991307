package cred

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/postlens/postlens/internal/model"
)

func TestBatchAnalyzer_ScoreAll(t *testing.T) {
	engine := newTestEngine(t, &fakeSentiment{})
	batch := NewBatchAnalyzer(engine, 4, 1, 40, nil)

	posts := make([]model.Post, 10)
	for i := range posts {
		posts[i] = model.Post{
			Title:    fmt.Sprintf("A calm recounting of municipal events number %d", i),
			SelfText: "The council met and minutes were taken.",
		}
	}

	report := batch.ScoreAll(context.Background(), posts)

	if len(report.Results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(report.Results))
	}
	for i, r := range report.Results {
		if r.Failed {
			t.Errorf("result %d: unexpected failure %q", i, r.Failure)
		}
		if r.Score != 50 {
			t.Errorf("result %d: expected neutral 50, got %d", i, r.Score)
		}
	}

	if report.Summary.Count != 10 || report.Summary.Failed != 0 {
		t.Errorf("expected count 10 / failed 0, got %d / %d", report.Summary.Count, report.Summary.Failed)
	}
	if report.Summary.Mean != 50 {
		t.Errorf("expected mean 50, got %f", report.Summary.Mean)
	}
}

func TestBatchAnalyzer_SingleFailureDoesNotAbort(t *testing.T) {
	engine := newTestEngine(t, &fakeSentiment{failOn: "poison"})
	batch := NewBatchAnalyzer(engine, 3, 1, 40, nil)

	posts := make([]model.Post, 10)
	for i := range posts {
		posts[i] = model.Post{Title: fmt.Sprintf("A calm recounting of events number %d", i)}
	}
	posts[4].Title = "This one carries poison in its title"

	report := batch.ScoreAll(context.Background(), posts)

	if len(report.Results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(report.Results))
	}

	failed := report.Results[4]
	if !failed.Failed {
		t.Fatal("expected result 4 flagged as failed")
	}
	if failed.Score != 0 {
		t.Errorf("expected sentinel score 0, got %d", failed.Score)
	}
	if len(failed.Factors) != 1 || !strings.HasPrefix(failed.Factors[0], "analysis failed:") {
		t.Errorf("expected sentinel factor, got %v", failed.Factors)
	}

	for i, r := range report.Results {
		if i == 4 {
			continue
		}
		if r.Failed {
			t.Errorf("result %d: unexpected failure", i)
		}
	}

	if report.Summary.Failed != 1 || report.Summary.Count != 9 {
		t.Errorf("expected 9 scored / 1 failed, got %d / %d", report.Summary.Count, report.Summary.Failed)
	}
}

func TestBatchAnalyzer_PositionalAlignment(t *testing.T) {
	engine := newTestEngine(t, &fakeSentiment{})
	batch := NewBatchAnalyzer(engine, 4, 1, 40, nil)

	// Alternate neutral posts (50) and sensational ones (5)
	posts := make([]model.Post, 20)
	for i := range posts {
		if i%2 == 0 {
			posts[i] = model.Post{
				Title:    "A calm recounting of municipal events",
				SelfText: "The council met and minutes were taken.",
			}
		} else {
			posts[i] = model.Post{Title: "SHOCKING!!"}
		}
	}

	report := batch.ScoreAll(context.Background(), posts)

	for i, r := range report.Results {
		want := 50
		if i%2 == 1 {
			want = 5
		}
		if r.Score != want {
			t.Errorf("result %d: expected %d, got %d", i, want, r.Score)
		}
	}
}

func TestBatchAnalyzer_LowCredibilityAggregates(t *testing.T) {
	engine := newTestEngine(t, &fakeSentiment{})
	batch := NewBatchAnalyzer(engine, 2, 1, 40, nil)

	posts := []model.Post{
		{Title: "A calm recounting of municipal events", SelfText: "The council met and minutes were taken."},
		{Title: "SHOCKING!!"},
		{Title: "SHOCKING!!"},
		{Title: "A calm recounting of municipal events", SelfText: "The council met and minutes were taken."},
	}

	report := batch.ScoreAll(context.Background(), posts)

	if report.LowCredibilityCount != 2 {
		t.Errorf("expected 2 low-credibility posts, got %d", report.LowCredibilityCount)
	}
	if report.LowCredibilityPercent != 50 {
		t.Errorf("expected 50%%, got %f", report.LowCredibilityPercent)
	}

	if len(report.LowExamples) != 3 {
		t.Fatalf("expected 3 low examples, got %d", len(report.LowExamples))
	}
	if report.LowExamples[0].Title != "SHOCKING!!" || report.LowExamples[0].Score != 5 {
		t.Errorf("worst example = %+v, want SHOCKING!! at 5", report.LowExamples[0])
	}
	if len(report.LowExamples[0].Factors) == 0 {
		t.Error("expected factors on the worst example")
	}
	// Third-lowest is a neutral 50; no failed rows may appear
	for _, ex := range report.LowExamples {
		if strings.HasPrefix(ex.Title, "analysis failed") {
			t.Errorf("failed sentinel leaked into examples: %+v", ex)
		}
	}
}

func TestBatchAnalyzer_LargeBatchCompletes(t *testing.T) {
	engine := newTestEngine(t, &fakeSentiment{})
	batch := NewBatchAnalyzer(engine, 4, 1, 40, nil)

	// Far more posts than workers or queue capacity
	posts := make([]model.Post, 200)
	for i := range posts {
		posts[i] = model.Post{
			Title:    fmt.Sprintf("A calm recounting of municipal events number %d", i),
			SelfText: "The council met and minutes were taken.",
		}
	}

	done := make(chan model.CredibilityReport, 1)
	go func() { done <- batch.ScoreAll(context.Background(), posts) }()

	select {
	case report := <-done:
		if len(report.Results) != 200 {
			t.Fatalf("expected 200 results, got %d", len(report.Results))
		}
		if report.Summary.Count != 200 || report.Summary.Failed != 0 {
			t.Errorf("expected 200 scored / 0 failed, got %d / %d",
				report.Summary.Count, report.Summary.Failed)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("large batch did not complete")
	}
}

func TestBatchAnalyzer_CancelledContext(t *testing.T) {
	engine := newTestEngine(t, &fakeSentiment{})
	batch := NewBatchAnalyzer(engine, 2, 1, 40, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	posts := make([]model.Post, 50)
	for i := range posts {
		posts[i] = model.Post{Title: fmt.Sprintf("Post number %d", i)}
	}

	done := make(chan model.CredibilityReport, 1)
	go func() { done <- batch.ScoreAll(ctx, posts) }()

	select {
	case report := <-done:
		if len(report.Results) != 50 {
			t.Fatalf("expected 50 positional results, got %d", len(report.Results))
		}
		sawCancelled := false
		for _, r := range report.Results {
			if r.Failed && strings.Contains(r.Failure, "context canceled") {
				sawCancelled = true
			}
		}
		if !sawCancelled {
			t.Error("expected unreached rows marked as failed after cancellation")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("batch did not return after context cancellation")
	}
}

func TestNewBatchAnalyzer_ZeroSeedBecomesTimeBased(t *testing.T) {
	engine := newTestEngine(t, &fakeSentiment{})

	batch := NewBatchAnalyzer(engine, 2, 0, 40, nil)
	if batch.baseSeed == 0 {
		t.Error("expected a zero seed to be replaced with a time-based one")
	}

	explicit := NewBatchAnalyzer(engine, 2, 1234, 40, nil)
	if explicit.baseSeed != 1234 {
		t.Errorf("explicit seed changed: got %d", explicit.baseSeed)
	}
}

func TestBatchAnalyzer_EmptyInput(t *testing.T) {
	engine := newTestEngine(t, &fakeSentiment{})
	batch := NewBatchAnalyzer(engine, 2, 1, 40, nil)

	report := batch.ScoreAll(context.Background(), nil)
	if len(report.Results) != 0 {
		t.Errorf("expected no results for empty input, got %d", len(report.Results))
	}
}

func TestBatchAnalyzer_ReproducibleWithSeed(t *testing.T) {
	scorer := &fakeSentiment{}
	mk := func() *BatchAnalyzer {
		engine, err := NewEngine(DefaultLexicon(), scorer, Options{})
		if err != nil {
			t.Fatalf("NewEngine: %v", err)
		}
		return NewBatchAnalyzer(engine, 4, 1234, 40, nil)
	}

	posts := make([]model.Post, 8)
	for i := range posts {
		posts[i] = model.Post{Title: fmt.Sprintf("A calm recounting of events number %d", i)}
	}

	first := mk().ScoreAll(context.Background(), posts)
	second := mk().ScoreAll(context.Background(), posts)

	for i := range first.Results {
		if first.Results[i].Score != second.Results[i].Score {
			t.Errorf("result %d: expected reproducible score, got %d and %d",
				i, first.Results[i].Score, second.Results[i].Score)
		}
	}
}
