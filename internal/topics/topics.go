// Package topics extracts latent topics from post text using LDA.
package topics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/james-bowman/nlp"
	"gonum.org/v1/gonum/mat"

	"github.com/postlens/postlens/internal/model"
	"github.com/postlens/postlens/internal/stats"
)

const (
	// minDocuments is the smallest corpus LDA produces anything useful for
	minDocuments = 5

	topTermsPerTopic = 10
	examplesPerTopic = 3
)

// Options controls topic extraction.
type Options struct {
	NumTopics int
	MaxTopics int
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{NumTopics: 5, MaxTopics: 10}
}

// Extract fits an LDA model over the posts' combined text and returns one
// Topic per component: its highest-weighted terms plus the titles of the
// posts most associated with it. Returns nil when the corpus is too small
// to model.
func Extract(posts []model.Post, opts Options) ([]model.Topic, error) {
	k := clampTopics(opts, len(posts))
	if k == 0 {
		return nil, nil
	}

	docs := make([]string, 0, len(posts))
	titles := make([]string, 0, len(posts))
	for _, p := range posts {
		text := p.CombinedText()
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, text)
		titles = append(titles, p.Title)
	}
	if len(docs) < minDocuments {
		return nil, nil
	}
	if k > len(docs) {
		k = len(docs)
	}

	vectoriser := nlp.NewCountVectoriser(stats.StopwordList()...)
	lda := nlp.NewLatentDirichletAllocation(k)
	pipeline := nlp.NewPipeline(vectoriser, lda)

	docsOverTopics, err := pipeline.FitTransform(docs...)
	if err != nil {
		return nil, fmt.Errorf("fitting topic model: %w", err)
	}

	vocab := make([]string, len(vectoriser.Vocabulary))
	for word, idx := range vectoriser.Vocabulary {
		vocab[idx] = word
	}

	topicsOverWords := lda.Components()
	_, words := topicsOverWords.Dims()

	result := make([]model.Topic, k)
	for topic := 0; topic < k; topic++ {
		weights := make([]weightedIndex, 0, words)
		for w := 0; w < words; w++ {
			weights = append(weights, weightedIndex{index: w, weight: topicsOverWords.At(topic, w)})
		}
		result[topic] = model.Topic{
			ID:       topic,
			Terms:    topIndices(weights, topTermsPerTopic, vocab),
			Examples: exampleTitles(docsOverTopics, topic, titles),
		}
	}

	return result, nil
}

type weightedIndex struct {
	index  int
	weight float64
}

// topIndices returns the labels of the n highest-weighted entries.
func topIndices(weights []weightedIndex, n int, labels []string) []string {
	sort.Slice(weights, func(i, j int) bool {
		if weights[i].weight != weights[j].weight {
			return weights[i].weight > weights[j].weight
		}
		return weights[i].index < weights[j].index
	})
	if n > len(weights) {
		n = len(weights)
	}
	out := make([]string, 0, n)
	for _, wi := range weights[:n] {
		out = append(out, labels[wi.index])
	}
	return out
}

// exampleTitles picks the titles of the documents most associated with the
// topic. docsOverTopics has topics as rows and documents as columns.
func exampleTitles(docsOverTopics mat.Matrix, topic int, titles []string) []string {
	_, docs := docsOverTopics.Dims()
	weights := make([]weightedIndex, 0, docs)
	for d := 0; d < docs; d++ {
		weights = append(weights, weightedIndex{index: d, weight: docsOverTopics.At(topic, d)})
	}
	examples := topIndices(weights, examplesPerTopic, titles)

	// Drop untitled documents rather than return blanks
	out := examples[:0]
	for _, title := range examples {
		if strings.TrimSpace(title) != "" {
			out = append(out, title)
		}
	}
	return out
}

func clampTopics(opts Options, n int) int {
	k := opts.NumTopics
	if k <= 0 {
		k = DefaultOptions().NumTopics
	}
	max := opts.MaxTopics
	if max <= 0 {
		max = DefaultOptions().MaxTopics
	}
	if k > max {
		k = max
	}
	if n < minDocuments {
		return 0
	}
	return k
}
