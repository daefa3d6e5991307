package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/postlens/postlens/internal/ingest"
	"github.com/postlens/postlens/internal/model"
)

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Credibility.DisableJitter = true
	cfg.Credibility.JitterSeed = 42
	return cfg
}

func TestAnalyze_EndToEnd(t *testing.T) {
	p, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = p.Close() }()

	posts := ingest.Synthetic(50, 1)
	report, err := p.Analyze(context.Background(), "synthetic", posts, false)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if report.Overview.TotalPosts != 50 {
		t.Errorf("TotalPosts = %d, want 50", report.Overview.TotalPosts)
	}
	if len(report.Credibility.Results) != 50 {
		t.Errorf("credibility results = %d, want 50", len(report.Credibility.Results))
	}
	for i, r := range report.Credibility.Results {
		if r.Score < 0 || r.Score > 100 {
			t.Errorf("result %d score %d out of bounds", i, r.Score)
		}
	}
	if report.Insights != nil {
		t.Error("insights generated without being requested")
	}
	if len(report.Activity.ByDOW) != 7 {
		t.Errorf("ByDOW rows = %d, want 7", len(report.Activity.ByDOW))
	}
}

func TestAnalyze_WithFallbackInsights(t *testing.T) {
	p, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = p.Close() }()

	posts := ingest.Synthetic(20, 7)
	report, err := p.Analyze(context.Background(), "synthetic", posts, true)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if report.Insights == nil {
		t.Fatal("expected insights")
	}
	if !report.Insights.Fallback {
		t.Error("expected fallback insights with no provider configured")
	}
	if report.Insights.Overview == "" {
		t.Error("expected fallback overview text")
	}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	p, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = p.Close() }()

	if _, err := p.Analyze(context.Background(), "empty", nil, false); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestAnalyze_PersistsRunWhenStoreEnabled(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Enabled = true
	cfg.Store.Path = filepath.Join(t.TempDir(), "runs.db")

	p, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = p.Close() }()

	posts := ingest.Synthetic(10, 3)
	if _, err := p.Analyze(context.Background(), "synthetic", posts, false); err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	runs, err := p.History(context.Background(), 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	if runs[0].PostCount != 10 {
		t.Errorf("PostCount = %d, want 10", runs[0].PostCount)
	}
}

func TestHistory_DisabledStore(t *testing.T) {
	p, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = p.Close() }()

	if _, err := p.History(context.Background(), 10); err == nil {
		t.Error("expected error when store is disabled")
	}
}

func TestRenderReport_WritesBothFormats(t *testing.T) {
	p, err := New(testConfig(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer func() { _ = p.Close() }()

	posts := ingest.Synthetic(10, 5)
	report, err := p.Analyze(context.Background(), "synthetic", posts, false)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "report.json")
	mdPath := filepath.Join(dir, "report.md")
	if err := p.RenderReport(report, jsonPath, mdPath); err != nil {
		t.Fatalf("RenderReport: %v", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read JSON: %v", err)
	}
	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("JSON output is not valid: %v", err)
	}
	if decoded.Overview.TotalPosts != 10 {
		t.Errorf("decoded TotalPosts = %d, want 10", decoded.Overview.TotalPosts)
	}

	md, err := os.ReadFile(mdPath)
	if err != nil {
		t.Fatalf("read markdown: %v", err)
	}
	for _, heading := range []string{"# Post Analysis Report", "## Overview", "## Credibility"} {
		if !strings.Contains(string(md), heading) {
			t.Errorf("markdown missing %q", heading)
		}
	}
}

func TestRenderMarkdown_LowExampleBullets(t *testing.T) {
	report := &model.Report{
		Source: "x",
		Credibility: model.CredibilityReport{
			LowExamples: []model.ScoredExample{
				{Title: "SHOCKING claim spreads", Score: 12, Factors: []string{"sensational language"}},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "report.md")
	if err := NewRenderer(false).RenderMarkdown(report, path); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	md, _ := os.ReadFile(path)

	if !strings.Contains(string(md), "### Lowest-Scoring Posts") {
		t.Error("missing lowest-scoring section")
	}
	if !strings.Contains(string(md), "- **12/100**: SHOCKING claim spreads") {
		t.Errorf("low example bullet not rendered as expected:\n%s", md)
	}
}

func TestRenderMarkdown_FooterToggle(t *testing.T) {
	report := &model.Report{Source: "x"}
	dir := t.TempDir()

	withPath := filepath.Join(dir, "with.md")
	if err := NewRenderer(true).RenderMarkdown(report, withPath); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	withFooter, _ := os.ReadFile(withPath)
	if !strings.Contains(string(withFooter), "not truth") {
		t.Error("expected footer when enabled")
	}

	withoutPath := filepath.Join(dir, "without.md")
	if err := NewRenderer(false).RenderMarkdown(report, withoutPath); err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	withoutFooter, _ := os.ReadFile(withoutPath)
	if strings.Contains(string(withoutFooter), "not truth") {
		t.Error("expected no footer when disabled")
	}
}
