package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/postlens/postlens/internal/model"
)

// maxLineBytes bounds a single JSONL line; long selftext bodies fit well
// within this.
const maxLineBytes = 4 * 1024 * 1024

// envelope is the Reddit API dump shape: each line wraps the post in "data"
type envelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

// rawPost tolerates the loose typing found in real dumps: numbers arrive as
// floats or strings, text fields may be null.
type rawPost struct {
	ID           string `json:"id"`
	Subreddit    string `json:"subreddit"`
	Title        any    `json:"title"`
	SelfText     any    `json:"selftext"`
	SelfTextHTML string `json:"selftext_html"`
	Author       string `json:"author"`
	Score        any    `json:"score"`
	CreatedUTC   any    `json:"created_utc"`
}

// ReadFile reads posts from a JSONL file.
func ReadFile(path string) ([]model.Post, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	posts, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return posts, nil
}

// Read parses line-delimited JSON into normalized posts. Lines are either a
// bare post object or a {"kind": ..., "data": {...}} envelope. Malformed
// lines are skipped; an input with no valid posts is an error.
func Read(r io.Reader) ([]model.Post, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	var posts []model.Post
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		raw, ok := parseLine([]byte(line))
		if !ok {
			continue
		}
		posts = append(posts, normalize(raw))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan input: %w", err)
	}
	if len(posts) == 0 {
		return nil, fmt.Errorf("no valid posts found in input")
	}
	return posts, nil
}

func parseLine(line []byte) (rawPost, bool) {
	var env envelope
	if err := json.Unmarshal(line, &env); err == nil && len(env.Data) > 0 {
		var raw rawPost
		if err := json.Unmarshal(env.Data, &raw); err == nil {
			return raw, true
		}
		return rawPost{}, false
	}

	var raw rawPost
	if err := json.Unmarshal(line, &raw); err != nil {
		return rawPost{}, false
	}
	// A line with neither title nor body is not a post
	if raw.Title == nil && raw.SelfText == nil && raw.SelfTextHTML == "" {
		return rawPost{}, false
	}
	return raw, true
}

// normalize coerces loose fields into the Post shape. Missing or null text
// becomes the empty string; a post with only HTML body gets the stripped
// text form.
func normalize(raw rawPost) model.Post {
	p := model.Post{
		ID:         raw.ID,
		Subreddit:  raw.Subreddit,
		Title:      coerceString(raw.Title),
		SelfText:   coerceString(raw.SelfText),
		Author:     raw.Author,
		Score:      coerceInt(raw.Score),
		CreatedUTC: coerceFloat(raw.CreatedUTC),
	}
	if p.SelfText == "" && raw.SelfTextHTML != "" {
		p.SelfText = StripHTML(raw.SelfTextHTML)
	}
	return p
}

func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}

func coerceInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

func coerceFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
