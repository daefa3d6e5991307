package model

import (
	"strings"
	"time"
)

// Post represents one normalized social-media post to be analyzed
type Post struct {
	ID         string  `json:"id,omitempty"`
	Subreddit  string  `json:"subreddit,omitempty"`
	Title      string  `json:"title"`
	SelfText   string  `json:"selftext,omitempty"`
	Author     string  `json:"author,omitempty"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc,omitempty"` // Unix seconds
}

// CombinedText returns the lowercased concatenation of title and body.
// It is a transient view used during scoring and text analysis, never stored.
func (p Post) CombinedText() string {
	return strings.ToLower(p.Title + " " + p.SelfText)
}

// CreatedAt converts the created_utc timestamp to a UTC time.
// The zero time is returned when the post carries no timestamp.
func (p Post) CreatedAt() time.Time {
	if p.CreatedUTC == 0 {
		return time.Time{}
	}
	sec := int64(p.CreatedUTC)
	nsec := int64((p.CreatedUTC - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC()
}

// HasTimestamp reports whether the post carries a creation time.
func (p Post) HasTimestamp() bool {
	return p.CreatedUTC != 0
}
