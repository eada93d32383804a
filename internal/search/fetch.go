// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dreamawakener/ai-homework/internal/httputil"
	"github.com/dreamawakener/ai-homework/pkg/types"
)

// arxivSearchURL is the arXiv HTML search endpoint. Declared as a var so
// tests can substitute an httptest server.
var arxivSearchURL = "https://arxiv.org/search/"

// Defaults for the listing crawl.
const (
	DefaultPageSize  = 50
	DefaultPageDelay = time.Second
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Fixed listing parameters: search all fields, request issued from the header form.
const (
	searchTypeAll      = "all"
	searchSourceHeader = "header"
)

// Fetcher pages through the arXiv search listing one page at a time.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
	PageSize  int
	PageDelay time.Duration

	// Log receives progress lines. Nil discards them.
	Log io.Writer
}

// NewFetcher builds a Fetcher from the search configuration, filling defaults.
func NewFetcher(cfg types.SearchConfig, log io.Writer) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	delay := cfg.PageDelay
	if delay <= 0 {
		delay = DefaultPageDelay
	}
	return &Fetcher{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: ua,
		PageSize:  pageSize,
		PageDelay: delay,
		Log:       log,
	}
}

// FetchStats describes how a fetch loop ended.
type FetchStats struct {
	Pages   int
	Skipped int
}

// Fetch collects at most maxResults records for query. It stops when the
// maximum is reached, when a page yields no records, or when a page yields
// fewer records than the page size. A network failure ends the loop; the
// records gathered so far are returned together with the error.
func (f *Fetcher) Fetch(ctx context.Context, query string, maxResults int) ([]types.PaperRecord, FetchStats, error) {
	w := f.log()
	pageSize := f.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var stats FetchStats
	var records []types.PaperRecord

	for page := 0; len(records) < maxResults; page++ {
		fmt.Fprintf(w, "fetching page %d\n", page+1)

		body, err := httputil.GetHTML(ctx, f.Client, arxivSearchURL, pageParams(query, page, pageSize), f.headers())
		if err != nil {
			return records, stats, fmt.Errorf("fetching page %d: %w", page+1, err)
		}
		stats.Pages++

		parsed, skipped, err := ParsePage(bytes.NewReader(body))
		if err != nil {
			return records, stats, fmt.Errorf("page %d: %w", page+1, err)
		}
		stats.Skipped += skipped
		if skipped > 0 {
			fmt.Fprintf(w, "warning: page %d: skipped %d unparseable result(s)\n", page+1, skipped)
		}

		if len(parsed) == 0 {
			fmt.Fprintf(w, "page %d has no results, stopping\n", page+1)
			break
		}
		fmt.Fprintf(w, "page %d: %d result(s)\n", page+1, len(parsed))

		for _, rec := range parsed {
			if len(records) >= maxResults {
				break
			}
			records = append(records, rec)
		}

		if len(parsed) < pageSize || len(records) >= maxResults {
			break
		}

		if err := sleep(ctx, f.PageDelay); err != nil {
			return records, stats, err
		}
	}

	return records, stats, nil
}

func pageParams(query string, page, pageSize int) url.Values {
	return url.Values{
		"query":      {query},
		"searchtype": {searchTypeAll},
		"source":     {searchSourceHeader},
		"start":      {strconv.Itoa(page * pageSize)},
	}
}

func (f *Fetcher) headers() map[string]string {
	ua := f.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	return map[string]string{"User-Agent": ua}
}

func (f *Fetcher) log() io.Writer {
	if f.Log == nil {
		return io.Discard
	}
	return f.Log
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
