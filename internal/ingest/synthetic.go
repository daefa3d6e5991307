package ingest

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/postlens/postlens/internal/model"
)

var (
	syntheticSubreddits = []string{"WorldNews", "Technology", "Science", "Gaming", "Politics"}
	syntheticTopics     = []string{"AI", "Climate", "Elections", "Space", "Economy"}
)

// Synthetic generates a demo dataset of n posts spread over the last 30
// days. The same seed produces the same subreddits, topics and scores.
func Synthetic(n int, seed int64) []model.Post {
	return syntheticAt(n, seed, time.Now().UTC().Add(-30*24*time.Hour))
}

func syntheticAt(n int, seed int64, base time.Time) []model.Post {
	rng := rand.New(rand.NewSource(seed))

	posts := make([]model.Post, 0, n)
	for i := 0; i < n; i++ {
		created := base.Add(
			time.Duration(rng.Intn(30))*24*time.Hour +
				time.Duration(rng.Intn(24))*time.Hour)

		subreddit := syntheticSubreddits[rng.Intn(len(syntheticSubreddits))]
		topic := syntheticTopics[rng.Intn(len(syntheticTopics))]
		score := int(rng.NormFloat64()*30 + 50)

		posts = append(posts, model.Post{
			ID:         fmt.Sprintf("demo_%d", i),
			Subreddit:  subreddit,
			Title:      fmt.Sprintf("Discussion about %s impact on society", topic),
			SelfText:   fmt.Sprintf("This is a synthetic post about %s for demo purposes.", topic),
			Author:     fmt.Sprintf("demo_user_%d", rng.Intn(10)+1),
			Score:      score,
			CreatedUTC: float64(created.Unix()),
		})
	}
	return posts
}
