// Package cred implements the credibility rule engine: a deterministic,
// rule-based classifier that converts a post's text and community signals
// into a bounded 0-100 trust estimate with human-readable factors.
package cred

// Category is a named group of marker phrases sharing one polarity.
// Categories are scanned in declaration order and the first match within a
// polarity wins, so the order decides which factor gets reported.
type Category struct {
	Name    string
	Markers []string
}

// Lexicon holds the static tables the engine matches against. All
// membership tests are substring containment over the lowercased combined
// text, not hostname parsing.
type Lexicon struct {
	TrustedDomains   []string
	UntrustedDomains []string
	Supporting       []Category // Raise the score
	Detracting       []Category // Lower the score
}

// DefaultLexicon returns the built-in marker and domain tables.
func DefaultLexicon() Lexicon {
	return Lexicon{
		TrustedDomains: []string{
			"nature.com", "science.org", "nih.gov", "nasa.gov", "edu",
			"bbc.com", "reuters.com", "apnews.com", "who.int", "cdc.gov",
			"nytimes.com", "washingtonpost.com", "theguardian.com",
			"scientificamerican.com", "smithsonianmag.com",
		},
		UntrustedDomains: []string{
			"infowars.com", "naturalnews.com", "breitbart.com",
			"dailywire.com", "beforeitsnews.com", "bitchute.com",
			"rumble.com", "parler.com", "gab.com", "gettr.com",
			"4chan.org", "thedcpatriot.com", "thegatewaypundit.com",
		},
		Supporting: []Category{
			{Name: "evidence", Markers: []string{
				"according to", "study finds", "evidence shows", "data indicates",
				"researchers found", "analysis shows", "statistics reveal",
				"experts say", "survey indicates", "sources confirm",
			}},
			{Name: "balanced_language", Markers: []string{
				"on the other hand", "however", "alternatively", "in contrast",
				"different perspective", "opposing view", "some argue",
				"critics say", "debate", "discussion",
			}},
			{Name: "precision", Markers: []string{
				"specifically", "precisely", "exactly", "approximately",
				"estimated", "about", "around", "measured", "calculated",
			}},
		},
		Detracting: []Category{
			{Name: "conspiracy", Markers: []string{
				"conspiracy", "coverup", "cover-up", "hoax", "illuminati",
				"nwo", "deep state", "they don't want you to know",
				"what they're hiding", "secret agenda", "mind control",
			}},
			{Name: "sensationalism", Markers: []string{
				"shocking", "bombshell", "unbelievable", "mind-blowing",
				"you won't believe", "jaw-dropping", "explosive",
				"scandalous", "outrageous", "banned",
			}},
			{Name: "hedging", Markers: []string{
				"maybe", "perhaps", "possibly", "allegedly", "reportedly",
				"supposedly", "claimed", "rumored", "anonymous sources",
			}},
			{Name: "urgency", Markers: []string{
				"urgent", "breaking", "alert", "emergency", "crisis",
				"act now", "limited time", "warning", "danger",
			}},
		},
	}
}

// WithDomains returns a copy of the lexicon with the domain lists replaced
// where the override is non-empty.
func (l Lexicon) WithDomains(trusted, untrusted []string) Lexicon {
	if len(trusted) > 0 {
		l.TrustedDomains = trusted
	}
	if len(untrusted) > 0 {
		l.UntrustedDomains = untrusted
	}
	return l
}

// empty reports whether the lexicon has no usable tables at all.
func (l Lexicon) empty() bool {
	return len(l.TrustedDomains) == 0 && len(l.UntrustedDomains) == 0 &&
		len(l.Supporting) == 0 && len(l.Detracting) == 0
}
