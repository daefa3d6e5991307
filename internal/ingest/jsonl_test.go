package ingest

import (
	"strings"
	"testing"
	"time"
)

func TestRead_EnvelopeLines(t *testing.T) {
	input := `{"kind": "t3", "data": {"title": "First post", "selftext": "body text", "score": 42, "subreddit": "golang", "author": "alice", "created_utc": 1700000000}}
{"kind": "t3", "data": {"title": "Second post", "score": 7, "subreddit": "golang"}}`

	posts, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}

	if posts[0].Title != "First post" {
		t.Errorf("expected title 'First post', got %q", posts[0].Title)
	}
	if posts[0].SelfText != "body text" {
		t.Errorf("expected body 'body text', got %q", posts[0].SelfText)
	}
	if posts[0].Score != 42 {
		t.Errorf("expected score 42, got %d", posts[0].Score)
	}
	if posts[1].SelfText != "" {
		t.Errorf("expected empty body for second post, got %q", posts[1].SelfText)
	}
}

func TestRead_BareLines(t *testing.T) {
	input := `{"title": "Bare post", "score": 1}`

	posts, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(posts) != 1 || posts[0].Title != "Bare post" {
		t.Fatalf("expected one bare post, got %+v", posts)
	}
}

func TestRead_SkipsMalformedLines(t *testing.T) {
	input := `not json at all
{"data": {"title": "good", "score": 3}}

{"data": "also not a post"}`

	posts, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(posts) != 1 {
		t.Fatalf("expected 1 post after skipping malformed lines, got %d", len(posts))
	}
	if posts[0].Title != "good" {
		t.Errorf("expected title 'good', got %q", posts[0].Title)
	}
}

func TestRead_EmptyInput(t *testing.T) {
	if _, err := Read(strings.NewReader("")); err == nil {
		t.Error("expected error for input with no valid posts")
	}
	if _, err := Read(strings.NewReader("garbage\nmore garbage")); err == nil {
		t.Error("expected error for input with only malformed lines")
	}
}

func TestRead_CoercesLooseTypes(t *testing.T) {
	input := `{"data": {"title": "typed", "selftext": null, "score": "15", "created_utc": "1700000000"}}`

	posts, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := posts[0]
	if p.SelfText != "" {
		t.Errorf("expected null selftext coerced to empty, got %q", p.SelfText)
	}
	if p.Score != 15 {
		t.Errorf("expected string score coerced to 15, got %d", p.Score)
	}
	if !p.HasTimestamp() {
		t.Error("expected string created_utc coerced to timestamp")
	}
}

func TestRead_StripsHTMLBody(t *testing.T) {
	input := `{"data": {"title": "html body", "selftext": "", "selftext_html": "<div><p>Hello <b>world</b></p><script>alert(1)</script></div>"}}`

	posts, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body := posts[0].SelfText
	if !strings.Contains(body, "Hello") || !strings.Contains(body, "world") {
		t.Errorf("expected stripped text body, got %q", body)
	}
	if strings.Contains(body, "alert") || strings.Contains(body, "<") {
		t.Errorf("expected script and tags removed, got %q", body)
	}
}

func TestSynthetic_Deterministic(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	a := syntheticAt(50, 7, base)
	b := syntheticAt(50, 7, base)

	if len(a) != 50 || len(b) != 50 {
		t.Fatalf("expected 50 posts, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical posts at %d for same seed, got %+v vs %+v", i, a[i], b[i])
		}
	}

	c := syntheticAt(50, 8, base)
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("expected different seed to produce a different dataset")
	}
}
