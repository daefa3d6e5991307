// Package stats computes the descriptive and temporal aggregates the
// reporting layer consumes. Everything here is derived from the post
// collection; nothing feeds back into scoring.
package stats

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/postlens/postlens/internal/model"
)

var nonLetterPattern = regexp.MustCompile(`[^a-z\s]`)

var urlishPattern = regexp.MustCompile(`https?://\S+`)

// Overview computes the dataset-level descriptive statistics.
func Overview(posts []model.Post, topWords int) model.Overview {
	o := model.Overview{TotalPosts: len(posts)}
	if len(posts) == 0 {
		return o
	}

	subreddits := make(map[string]int)
	authors := make(map[string]bool)
	scoreSum := 0
	o.MaxScore = posts[0].Score
	for _, p := range posts {
		if p.Subreddit != "" {
			subreddits[p.Subreddit]++
		}
		if p.Author != "" && p.Author != "[deleted]" {
			authors[p.Author] = true
		}
		scoreSum += p.Score
		if p.Score > o.MaxScore {
			o.MaxScore = p.Score
		}
	}

	o.UniqueSubreddits = len(subreddits)
	o.UniqueAuthors = len(authors)
	o.AverageScore = float64(scoreSum) / float64(len(posts))
	o.DateRange = dateRange(posts)
	o.Subreddits = sortedBuckets(subreddits, 0)
	o.TopWords = TopWords(posts, topWords)

	return o
}

// TopWords counts stopword-filtered words across combined text and returns
// the n most frequent.
func TopWords(posts []model.Post, n int) []model.BucketRow {
	if n <= 0 {
		n = 20
	}

	counts := make(map[string]int)
	stop := Stopwords()
	for _, p := range posts {
		for _, word := range Tokenize(p.CombinedText(), stop) {
			counts[word]++
		}
	}

	return sortedBuckets(counts, n)
}

// Tokenize cleans text (URLs and non-letters removed, lowercased) and
// returns tokens longer than two characters that are not stopwords.
func Tokenize(text string, stop map[string]bool) []string {
	text = urlishPattern.ReplaceAllString(strings.ToLower(text), " ")
	text = nonLetterPattern.ReplaceAllString(text, " ")

	var tokens []string
	for _, word := range strings.Fields(text) {
		if len(word) <= 2 || stop[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// ActivityPatterns buckets posts by day, ISO week, month, day-of-week and
// hour. Posts without timestamps are skipped.
func ActivityPatterns(posts []model.Post) model.Activity {
	byDay := make(map[string]int)
	byWeek := make(map[string]int)
	byMonth := make(map[string]int)
	dow := make([]int, 7)
	hours := make([]int, 24)

	stamped := false
	for _, p := range posts {
		if !p.HasTimestamp() {
			continue
		}
		stamped = true
		at := p.CreatedAt()

		byDay[at.Format("2006-01-02")]++
		year, week := at.ISOWeek()
		byWeek[fmt.Sprintf("%d-W%02d", year, week)]++
		byMonth[at.Format("2006-01")]++
		// time.Weekday starts at Sunday; report Monday-first
		dow[(int(at.Weekday())+6)%7]++
		hours[at.Hour()]++
	}

	if !stamped {
		return model.Activity{}
	}

	activity := model.Activity{
		ByDay:   sortedByLabel(byDay),
		ByWeek:  sortedByLabel(byWeek),
		ByMonth: sortedByLabel(byMonth),
	}

	dayNames := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	for i, name := range dayNames {
		activity.ByDOW = append(activity.ByDOW, model.BucketRow{Label: name, Count: dow[i]})
	}
	for h := 0; h < 24; h++ {
		activity.ByHour = append(activity.ByHour, model.BucketRow{Label: fmt.Sprintf("%02d", h), Count: hours[h]})
	}

	return activity
}

func dateRange(posts []model.Post) string {
	var min, max time.Time
	for _, p := range posts {
		if !p.HasTimestamp() {
			continue
		}
		at := p.CreatedAt()
		if min.IsZero() || at.Before(min) {
			min = at
		}
		if at.After(max) {
			max = at
		}
	}
	if min.IsZero() {
		return ""
	}

	const layout = "January 2, 2006"
	if min.Format(layout) == max.Format(layout) {
		return min.Format(layout)
	}
	return min.Format(layout) + " to " + max.Format(layout)
}

// sortedBuckets sorts by count descending, label ascending for ties;
// n <= 0 returns everything.
func sortedBuckets(counts map[string]int, n int) []model.BucketRow {
	rows := make([]model.BucketRow, 0, len(counts))
	for label, count := range counts {
		rows = append(rows, model.BucketRow{Label: label, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Label < rows[j].Label
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

func sortedByLabel(counts map[string]int) []model.BucketRow {
	rows := make([]model.BucketRow, 0, len(counts))
	for label, count := range counts {
		rows = append(rows, model.BucketRow{Label: label, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Label < rows[j].Label })
	return rows
}
