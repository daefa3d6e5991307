package topics

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/postlens/postlens/internal/model"
)

func TestClampTopics(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		n    int
		want int
	}{
		{"defaults", Options{}, 100, 5},
		{"explicit", Options{NumTopics: 3, MaxTopics: 10}, 100, 3},
		{"capped at max", Options{NumTopics: 50, MaxTopics: 10}, 100, 10},
		{"too few documents", Options{NumTopics: 5, MaxTopics: 10}, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampTopics(tt.opts, tt.n); got != tt.want {
				t.Errorf("clampTopics(%+v, %d) = %d, want %d", tt.opts, tt.n, got, tt.want)
			}
		})
	}
}

func TestTopIndices(t *testing.T) {
	labels := []string{"alpha", "beta", "gamma", "delta"}
	weights := []weightedIndex{
		{index: 0, weight: 0.1},
		{index: 1, weight: 0.9},
		{index: 2, weight: 0.5},
		{index: 3, weight: 0.3},
	}

	got := topIndices(weights, 2, labels)

	if len(got) != 2 || got[0] != "beta" || got[1] != "gamma" {
		t.Errorf("topIndices = %v, want [beta gamma]", got)
	}
}

func TestExampleTitles_SkipsBlanks(t *testing.T) {
	// Two topics, three documents. Document 1 has no title.
	m := mat.NewDense(2, 3, []float64{
		0.9, 0.8, 0.1,
		0.1, 0.2, 0.9,
	})
	titles := []string{"First post", "", "Third post"}

	got := exampleTitles(m, 0, titles)

	for _, title := range got {
		if title == "" {
			t.Error("blank title leaked into examples")
		}
	}
	if len(got) == 0 || got[0] != "First post" {
		t.Errorf("examples = %v, want First post first", got)
	}
}

func TestExtract_TooFewPosts(t *testing.T) {
	posts := []model.Post{
		{Title: "one"},
		{Title: "two"},
	}
	got, err := Extract(posts, DefaultOptions())
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil topics for tiny corpus, got %+v", got)
	}
}

func TestExtract_EmptyTextSkipped(t *testing.T) {
	posts := []model.Post{
		{Title: " "}, {Title: "  "}, {Title: ""}, {Title: " "}, {Title: ""},
	}
	got, err := Extract(posts, DefaultOptions())
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil topics when no post has text, got %+v", got)
	}
}

func TestExtract_ProducesRequestedTopics(t *testing.T) {
	corpus := []string{
		"space telescope captures distant galaxy images",
		"rocket launch delayed by weather conditions",
		"astronomers discover new exoplanet orbiting star",
		"election results spark nationwide protests",
		"parliament debates new voting legislation",
		"candidates prepare for televised debate",
		"central bank raises interest rates again",
		"inflation slows as markets stabilize",
		"unemployment figures show modest improvement",
	}
	posts := make([]model.Post, len(corpus))
	for i, title := range corpus {
		posts[i] = model.Post{Title: title}
	}

	got, err := Extract(posts, Options{NumTopics: 3, MaxTopics: 10})
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("topics = %d, want 3", len(got))
	}
	for _, topic := range got {
		if len(topic.Terms) == 0 {
			t.Errorf("topic %d has no terms", topic.ID)
		}
		if len(topic.Terms) > 10 {
			t.Errorf("topic %d has %d terms, want at most 10", topic.ID, len(topic.Terms))
		}
		if len(topic.Examples) > 3 {
			t.Errorf("topic %d has %d examples, want at most 3", topic.ID, len(topic.Examples))
		}
	}
}
