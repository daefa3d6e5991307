package stats

import (
	"sort"

	"github.com/postlens/postlens/internal/model"
)

// TrendOptions controls trending-keyword detection.
type TrendOptions struct {
	MinCount int     // Minimum occurrences in a period to qualify
	Ratio    float64 // Required growth over the previous period
}

// DefaultTrendOptions mirrors the configuration defaults.
func DefaultTrendOptions() TrendOptions {
	return TrendOptions{MinCount: 5, Ratio: 1.5}
}

// Trending finds keywords whose usage spiked between adjacent daily
// periods. The first period only serves as a baseline and never yields
// trends. A word trends in a later period when it appears at least
// MinCount times and more than Ratio times its count in the previous
// period. Words absent from the previous period trend with Ratio 0.
func Trending(posts []model.Post, opts TrendOptions) []model.TrendingKeyword {
	if opts.MinCount <= 0 {
		opts.MinCount = 5
	}
	if opts.Ratio <= 0 {
		opts.Ratio = 1.5
	}

	stop := Stopwords()
	periods := make(map[string]map[string]int)
	for _, p := range posts {
		if !p.HasTimestamp() {
			continue
		}
		day := p.CreatedAt().Format("2006-01-02")
		counts := periods[day]
		if counts == nil {
			counts = make(map[string]int)
			periods[day] = counts
		}
		for _, word := range Tokenize(p.Title, stop) {
			counts[word]++
		}
	}

	labels := make([]string, 0, len(periods))
	for label := range periods {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var trending []model.TrendingKeyword
	for i := 1; i < len(labels); i++ {
		label := labels[i]
		previous := periods[labels[i-1]]

		words := make([]string, 0, len(periods[label]))
		for word := range periods[label] {
			words = append(words, word)
		}
		sort.Strings(words)

		for _, word := range words {
			count := periods[label][word]
			if count < opts.MinCount {
				continue
			}
			before := previous[word]
			if before == 0 {
				trending = append(trending, model.TrendingKeyword{
					Word:   word,
					Period: label,
					Count:  count,
				})
				continue
			}
			ratio := float64(count) / float64(before)
			if ratio > opts.Ratio {
				trending = append(trending, model.TrendingKeyword{
					Word:   word,
					Period: label,
					Count:  count,
					Ratio:  ratio,
				})
			}
		}
	}

	return trending
}
