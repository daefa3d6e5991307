// Package sentiment provides the compound-polarity collaborator the
// credibility engine consults once per post.
package sentiment

import (
	"github.com/jonreiter/govader"
)

// Scorer returns a compound polarity in [-1, 1] for a piece of text.
type Scorer interface {
	Compound(text string) (float64, error)
}

// VADER scores text with the VADER lexicon. Safe for concurrent use; the
// analyzer holds no per-call state.
type VADER struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVADER constructs the VADER scorer.
func NewVADER() *VADER {
	return &VADER{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Compound returns the compound polarity for text.
func (v *VADER) Compound(text string) (float64, error) {
	return v.analyzer.PolarityScores(text).Compound, nil
}
