package cred

import (
	"fmt"
	"math/rand"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/postlens/postlens/internal/model"
	"github.com/postlens/postlens/internal/sentiment"
)

// baseScore is the neutral starting point before any rule fires
const baseScore = 50

var (
	capsRunPattern  = regexp.MustCompile(`[A-Z]{5,}`)
	punctRunPattern = regexp.MustCompile(`[!?]{2,}`)
	urlPattern      = regexp.MustCompile(`https?://(?:[-\w.]|%[0-9a-fA-F]{2})+`)
)

// adjustment is one signed point delta with an optional factor string.
// An empty reason is never surfaced (used only for jitter).
type adjustment struct {
	delta  int
	reason string
}

// Options configures engine randomness
type Options struct {
	// DisableJitter removes the random [-3,3] term entirely
	DisableJitter bool
	// Seed seeds the engine-level jitter source; 0 means time-seeded
	Seed int64
}

// Engine evaluates the credibility rules against the lexicon tables and the
// sentiment collaborator. It holds no per-post state: every Analyze call is
// independent, and the only mutable state is the jitter source.
type Engine struct {
	lex    Lexicon
	scorer sentiment.Scorer
	jitter bool

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates a rule engine. It fails fast when the sentiment
// collaborator is missing or the lexicon carries no tables; no partial
// engine is returned.
func NewEngine(lex Lexicon, scorer sentiment.Scorer, opts Options) (*Engine, error) {
	if scorer == nil {
		return nil, fmt.Errorf("sentiment scorer is required")
	}
	if lex.empty() {
		return nil, fmt.Errorf("lexicon has no marker or domain tables")
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Engine{
		lex:    lex,
		scorer: scorer,
		jitter: !opts.DisableJitter,
		rng:    rand.New(rand.NewSource(seed)),
	}, nil
}

// Analyze scores a single post. A sentiment collaborator failure propagates
// as the analysis error; the caller decides how to degrade (the batch
// analyzer substitutes a sentinel row).
func (e *Engine) Analyze(p model.Post) (model.CredibilityResult, error) {
	jitter := 0
	if e.jitter {
		e.mu.Lock()
		jitter = jitterDelta(e.rng)
		e.mu.Unlock()
	}
	return e.analyze(p, jitter)
}

// AnalyzeSeeded scores a single post with the jitter term drawn from its
// own source seeded with seed, making the call a pure function of its
// inputs. The batch analyzer uses this for reproducible concurrent runs.
func (e *Engine) AnalyzeSeeded(p model.Post, seed int64) (model.CredibilityResult, error) {
	jitter := 0
	if e.jitter {
		jitter = jitterDelta(rand.New(rand.NewSource(seed)))
	}
	return e.analyze(p, jitter)
}

func (e *Engine) analyze(p model.Post, jitter int) (model.CredibilityResult, error) {
	combined := p.CombinedText()

	var adjustments []adjustment

	// 1. Capitalization and punctuation checks against the raw title
	if a, ok := checkCapitalization(p.Title); ok {
		adjustments = append(adjustments, a)
	}
	if a, ok := checkPunctuation(p.Title); ok {
		adjustments = append(adjustments, a)
	}

	// 2. Domain mentions anywhere in the text, deliberately permissive
	// substring containment
	if a, ok := e.checkTrustedMentions(combined); ok {
		adjustments = append(adjustments, a)
	}
	if a, ok := e.checkUntrustedMentions(combined); ok {
		adjustments = append(adjustments, a)
	}

	// 3. Sentiment extremity via the collaborator
	compound, err := e.scorer.Compound(combined)
	if err != nil {
		return model.CredibilityResult{}, fmt.Errorf("sentiment: %w", err)
	}
	if compound > 0.8 || compound < -0.8 {
		adjustments = append(adjustments, adjustment{-10, "extremely emotional language"})
	}

	// 4. Length check, mutually exclusive branches
	if a, ok := checkLength(combined); ok {
		adjustments = append(adjustments, a)
	}

	// 5. Category matches, first hit per polarity wins
	if a, ok := matchCategory(combined, e.lex.Supporting, 10, "credible language"); ok {
		adjustments = append(adjustments, a)
	}
	if a, ok := matchCategory(combined, e.lex.Detracting, -15, "questionable language"); ok {
		adjustments = append(adjustments, a)
	}

	// 6. Community score signal
	if a, ok := checkCommunityScore(p.Score); ok {
		adjustments = append(adjustments, a)
	}

	// 7. URL reputation over discovered link hosts; trusted and untrusted
	// counts fire independently
	adjustments = append(adjustments, e.checkURLReputation(combined)...)

	// 8. Jitter, never surfaced as a factor
	adjustments = append(adjustments, adjustment{jitter, ""})

	score := baseScore
	var factors []string
	for _, a := range adjustments {
		score += a.delta
		if a.reason != "" {
			factors = append(factors, a.reason)
		}
	}

	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	return model.CredibilityResult{Score: score, Factors: factors}, nil
}

func checkCapitalization(title string) (adjustment, bool) {
	if capsRunPattern.MatchString(title) {
		return adjustment{-15, "excessive capitalization"}, true
	}
	return adjustment{}, false
}

func checkPunctuation(title string) (adjustment, bool) {
	if punctRunPattern.MatchString(title) {
		return adjustment{-10, "excessive punctuation"}, true
	}
	return adjustment{}, false
}

func (e *Engine) checkTrustedMentions(combined string) (adjustment, bool) {
	matches := domainMentions(combined, e.lex.TrustedDomains)
	if len(matches) == 0 {
		return adjustment{}, false
	}
	return adjustment{15, "references trusted source(s): " + strings.Join(matches, ", ")}, true
}

func (e *Engine) checkUntrustedMentions(combined string) (adjustment, bool) {
	matches := domainMentions(combined, e.lex.UntrustedDomains)
	if len(matches) == 0 {
		return adjustment{}, false
	}
	return adjustment{-20, "references untrusted source(s): " + strings.Join(matches, ", ")}, true
}

func checkLength(combined string) (adjustment, bool) {
	if len(combined) < 20 {
		return adjustment{-5, "very short content"}, true
	}
	if len(combined) > 500 {
		return adjustment{5, "detailed explanation"}, true
	}
	return adjustment{}, false
}

// matchCategory scans categories in declaration order and stops at the
// first one with a marker present, so at most one factor is reported per
// polarity no matter how many categories match.
func matchCategory(combined string, categories []Category, delta int, label string) (adjustment, bool) {
	for _, cat := range categories {
		for _, marker := range cat.Markers {
			if strings.Contains(combined, marker) {
				return adjustment{delta, fmt.Sprintf("%s: %s", label, cat.Name)}, true
			}
		}
	}
	return adjustment{}, false
}

func checkCommunityScore(score int) (adjustment, bool) {
	if score > 100 {
		return adjustment{10, "highly upvoted"}, true
	}
	if score < 0 {
		return adjustment{-5, "downvoted"}, true
	}
	return adjustment{}, false
}

// checkURLReputation extracts http(s) URLs, takes their hosts, and counts
// hosts containing a trusted or untrusted list entry. Independent of the
// plain mention checks, which match anywhere in the text.
func (e *Engine) checkURLReputation(combined string) []adjustment {
	rawURLs := urlPattern.FindAllString(combined, -1)
	if len(rawURLs) == 0 {
		return nil
	}

	trustedCount := 0
	untrustedCount := 0
	for _, raw := range rawURLs {
		parsed, err := url.Parse(raw)
		if err != nil {
			continue
		}
		host := parsed.Host
		if containsAny(host, e.lex.TrustedDomains) {
			trustedCount++
		}
		if containsAny(host, e.lex.UntrustedDomains) {
			untrustedCount++
		}
	}

	var out []adjustment
	if trustedCount > 0 {
		out = append(out, adjustment{5 * trustedCount, fmt.Sprintf("%d reputable link(s)", trustedCount)})
	}
	if untrustedCount > 0 {
		out = append(out, adjustment{-10 * untrustedCount, fmt.Sprintf("%d questionable link(s)", untrustedCount)})
	}
	return out
}

// domainMentions returns the list entries found as substrings, preserving
// list order.
func domainMentions(combined string, domains []string) []string {
	var found []string
	for _, domain := range domains {
		if strings.Contains(combined, domain) {
			found = append(found, domain)
		}
	}
	return found
}

func containsAny(host string, domains []string) bool {
	for _, domain := range domains {
		if strings.Contains(host, domain) {
			return true
		}
	}
	return false
}

// jitterDelta draws one integer uniformly from [-3, 3] inclusive
func jitterDelta(rng *rand.Rand) int {
	return rng.Intn(7) - 3
}
