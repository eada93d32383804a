// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dreamawakener/ai-homework/pkg/types"
)

// Bounds on the number of papers one search collects.
const (
	DefaultMaxResults = 50

	// MaxScrapeResults is the deepest offset arxiv.org/search will page to.
	MaxScrapeResults = 10000
)

// Crawler turns a topic into a bounded list of arXiv papers: translate, then fetch.
type Crawler struct {
	Translator *Translator
	Fetcher    *Fetcher

	// Log receives progress lines. Nil discards them.
	Log io.Writer
}

// SearchOutput holds the papers found and how the search went.
type SearchOutput struct {
	Topic   string              `json:"topic" yaml:"topic"`
	Query   string              `json:"query" yaml:"query"`
	Papers  []types.PaperRecord `json:"papers" yaml:"papers"`
	Pages   int                 `json:"pages" yaml:"pages"`
	Skipped int                 `json:"skipped,omitempty" yaml:"skipped,omitempty"`

	// FetchError records why the crawl ended early. Empty when it ran to a
	// natural stop.
	FetchError string `json:"fetch_error,omitempty" yaml:"fetch_error,omitempty"`
}

// Search translates topic when needed and collects up to maxResults papers.
// A network failure shortens the result instead of failing the call; the
// only error is an empty topic.
func (c *Crawler) Search(ctx context.Context, topic string, maxResults int) (SearchOutput, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return SearchOutput{}, fmt.Errorf("search topic is empty")
	}
	w := c.Log
	if w == nil {
		w = io.Discard
	}

	maxResults = ClampMaxResults(maxResults)

	query := topic
	if c.Translator != nil {
		query = c.Translator.Translate(ctx, topic)
	}
	fmt.Fprintf(w, "searching arXiv for %q (up to %d papers)\n", query, maxResults)

	papers, stats, err := c.Fetcher.Fetch(ctx, query, maxResults)
	out := SearchOutput{
		Topic:   topic,
		Query:   query,
		Papers:  papers,
		Pages:   stats.Pages,
		Skipped: stats.Skipped,
	}
	if err != nil {
		out.FetchError = err.Error()
		fmt.Fprintf(w, "warning: search ended with %d results: %v\n", len(papers), err)
		return out, nil
	}
	fmt.Fprintf(w, "found %d papers\n", len(papers))
	return out, nil
}

// ClampMaxResults applies the default to non-positive values and caps the
// rest at MaxScrapeResults.
func ClampMaxResults(n int) int {
	switch {
	case n <= 0:
		return DefaultMaxResults
	case n > MaxScrapeResults:
		return MaxScrapeResults
	default:
		return n
	}
}
