package stats

import "strings"

// englishStopwords is the usual english stopword list plus platform noise
// tokens (markup leftovers, boilerplate) that dominate post text.
var englishStopwords = []string{
	"a", "about", "above", "after", "again", "against", "all", "am", "an",
	"and", "any", "are", "aren't", "as", "at", "be", "because", "been",
	"before", "being", "below", "between", "both", "but", "by", "can't",
	"cannot", "could", "couldn't", "did", "didn't", "do", "does", "doesn't",
	"doing", "don't", "down", "during", "each", "few", "for", "from",
	"further", "had", "hadn't", "has", "hasn't", "have", "haven't", "having",
	"he", "her", "here", "hers", "herself", "him", "himself", "his", "how",
	"i", "if", "in", "into", "is", "isn't", "it", "its", "itself", "let's",
	"me", "more", "most", "mustn't", "my", "myself", "no", "nor", "not",
	"of", "off", "on", "once", "only", "or", "other", "ought", "our",
	"ours", "ourselves", "out", "over", "own", "same", "shan't", "she",
	"should", "shouldn't", "so", "some", "such", "than", "that", "the",
	"their", "theirs", "them", "themselves", "then", "there", "these",
	"they", "this", "those", "through", "to", "too", "under", "until",
	"up", "very", "was", "wasn't", "we", "were", "weren't", "what", "when",
	"where", "which", "while", "who", "whom", "why", "with", "won't",
	"would", "wouldn't", "you", "your", "yours", "yourself", "yourselves",

	// Platform noise
	"amp", "x200b", "https", "http", "www", "com",
	"reddit", "like", "just", "post", "get", "would",
}

// Stopwords returns the stopword set used for word counting, trend
// detection and topic extraction.
func Stopwords() map[string]bool {
	set := make(map[string]bool, len(englishStopwords))
	for _, w := range englishStopwords {
		set[w] = true
	}
	return set
}

// StopwordList returns the stopwords as a slice, for collaborators that
// take variadic stopword arguments.
func StopwordList() []string {
	out := make([]string, len(englishStopwords))
	copy(out, englishStopwords)
	return out
}

// IsStopword reports whether a lowercased token is in the stopword set.
func IsStopword(word string) bool {
	word = strings.ToLower(word)
	for _, w := range englishStopwords {
		if w == word {
			return true
		}
	}
	return false
}
