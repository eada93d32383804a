// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamawakener/ai-homework/internal/httputil"
	"github.com/dreamawakener/ai-homework/pkg/types"
)

// listingServer serves page sizes from sizes in order of the start parameter
// and records every start it sees. Pages beyond sizes are empty.
type listingServer struct {
	mu     sync.Mutex
	starts []int
	query  []string
	agents []string
}

func (s *listingServer) handler(t *testing.T, pageSize int, sizes []int, failAt int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, err := strconv.Atoi(r.URL.Query().Get("start"))
		assert.NoError(t, err)

		s.mu.Lock()
		s.starts = append(s.starts, start)
		s.query = append(s.query, r.URL.RawQuery)
		s.agents = append(s.agents, r.Header.Get("User-Agent"))
		page := len(s.starts) - 1
		s.mu.Unlock()

		if page == failAt {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		n := 0
		if idx := start / pageSize; idx < len(sizes) {
			n = sizes[idx]
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(pageOf(start, n)))
	}
}

func newTestFetcher(pageSize int) *Fetcher {
	return &Fetcher{
		Client:    http.DefaultClient,
		UserAgent: "test-agent/1.0",
		PageSize:  pageSize,
	}
}

func TestFetchStopsOnShortPage(t *testing.T) {
	ls := &listingServer{}
	srv := httptest.NewServer(ls.handler(t, 50, []int{50, 50, 13}, -1))
	defer srv.Close()
	setSearchURL(t, srv.URL)

	records, stats, err := newTestFetcher(50).Fetch(context.Background(), "graph networks", 150)
	require.NoError(t, err)

	assert.Len(t, records, 113)
	assert.Equal(t, []int{0, 50, 100}, ls.starts)
	assert.Equal(t, 3, stats.Pages)
	assert.Zero(t, stats.Skipped)
	assert.Equal(t, "2403.00000", records[0].ExternalID)
	assert.Equal(t, "2403.00112", records[112].ExternalID)
}

func TestFetchTruncatesWithinPage(t *testing.T) {
	ls := &listingServer{}
	srv := httptest.NewServer(ls.handler(t, 50, []int{50, 50, 50, 50}, -1))
	defer srv.Close()
	setSearchURL(t, srv.URL)

	records, _, err := newTestFetcher(50).Fetch(context.Background(), "graph networks", 120)
	require.NoError(t, err)

	assert.Len(t, records, 120)
	assert.Equal(t, []int{0, 50, 100}, ls.starts)
}

func TestFetchStopsAtMaxOnPageBoundary(t *testing.T) {
	ls := &listingServer{}
	srv := httptest.NewServer(ls.handler(t, 50, []int{50, 50, 50}, -1))
	defer srv.Close()
	setSearchURL(t, srv.URL)

	records, stats, err := newTestFetcher(50).Fetch(context.Background(), "graph networks", 100)
	require.NoError(t, err)

	assert.Len(t, records, 100)
	assert.Equal(t, 2, stats.Pages)
}

func TestFetchStopsOnEmptyPage(t *testing.T) {
	ls := &listingServer{}
	srv := httptest.NewServer(ls.handler(t, 50, []int{50}, -1))
	defer srv.Close()
	setSearchURL(t, srv.URL)

	records, stats, err := newTestFetcher(50).Fetch(context.Background(), "graph networks", 500)
	require.NoError(t, err)

	assert.Len(t, records, 50)
	assert.Equal(t, []int{0, 50}, ls.starts)
	assert.Equal(t, 2, stats.Pages)
}

func TestFetchNoResults(t *testing.T) {
	ls := &listingServer{}
	srv := httptest.NewServer(ls.handler(t, 50, nil, -1))
	defer srv.Close()
	setSearchURL(t, srv.URL)

	records, _, err := newTestFetcher(50).Fetch(context.Background(), "nothing matches this", 50)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Len(t, ls.starts, 1)
}

func TestFetchNetworkFailureKeepsPartial(t *testing.T) {
	ls := &listingServer{}
	srv := httptest.NewServer(ls.handler(t, 50, []int{50, 50, 50}, 1))
	defer srv.Close()
	setSearchURL(t, srv.URL)

	records, stats, err := newTestFetcher(50).Fetch(context.Background(), "graph networks", 150)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")

	var se *httputil.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)

	assert.Len(t, records, 50)
	assert.Equal(t, 1, stats.Pages)
	assert.Len(t, ls.starts, 2, "failed page must not be retried")
}

func TestFetchSendsListingParameters(t *testing.T) {
	ls := &listingServer{}
	srv := httptest.NewServer(ls.handler(t, 50, []int{3}, -1))
	defer srv.Close()
	setSearchURL(t, srv.URL)

	_, _, err := newTestFetcher(50).Fetch(context.Background(), "graph neural networks", 50)
	require.NoError(t, err)

	require.Len(t, ls.query, 1)
	assert.Contains(t, ls.query[0], "query=graph+neural+networks")
	assert.Contains(t, ls.query[0], "searchtype=all")
	assert.Contains(t, ls.query[0], "source=header")
	assert.Contains(t, ls.query[0], "start=0")
	assert.Equal(t, []string{"test-agent/1.0"}, ls.agents)
}

func TestFetchSkippedFragmentsShortenPage(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		items := []string{}
		for i := 0; i < 3; i++ {
			items = append(items, samplePaper(i).html())
		}
		items = append(items, samplePaper(99).without("title", "id").html())
		w.Write([]byte(listingPage(items...)))
	}))
	defer srv.Close()
	setSearchURL(t, srv.URL)

	var log bytes.Buffer
	f := newTestFetcher(4)
	f.Log = &log

	records, stats, err := f.Fetch(context.Background(), "graph networks", 100)
	require.NoError(t, err)

	assert.Len(t, records, 3)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 1, calls, "a page yielding fewer records than the page size ends the crawl")
	assert.Contains(t, log.String(), "warning: page 1: skipped 1")
}

func TestFetchHonorsCancelledContext(t *testing.T) {
	ls := &listingServer{}
	srv := httptest.NewServer(ls.handler(t, 50, []int{50, 50}, -1))
	defer srv.Close()
	setSearchURL(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, _, err := newTestFetcher(50).Fetch(ctx, "graph networks", 100)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, records)
}

func TestNewFetcherDefaults(t *testing.T) {
	f := NewFetcher(types.SearchConfig{}, nil)
	assert.Equal(t, DefaultPageSize, f.PageSize)
	assert.Equal(t, DefaultPageDelay, f.PageDelay)
	assert.Equal(t, DefaultUserAgent, f.UserAgent)
	assert.Equal(t, DefaultTimeout, f.Client.Timeout)

	f = NewFetcher(types.SearchConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "ua"},
		PageSize:   25,
		PageDelay:  2 * time.Second,
	}, nil)
	assert.Equal(t, 25, f.PageSize)
	assert.Equal(t, "ua", f.UserAgent)
	assert.Equal(t, 2*time.Second, f.PageDelay)
	assert.Equal(t, 5*time.Second, f.Client.Timeout)
}

func TestFetchPausesBetweenPagesOnly(t *testing.T) {
	ls := &listingServer{}
	srv := httptest.NewServer(ls.handler(t, 50, []int{50, 50, 13}, -1))
	defer srv.Close()
	setSearchURL(t, srv.URL)

	const delay = 50 * time.Millisecond
	f := newTestFetcher(50)
	f.PageDelay = delay

	begin := time.Now()
	records, stats, err := f.Fetch(context.Background(), "graph networks", 150)
	elapsed := time.Since(begin)
	require.NoError(t, err)

	assert.Len(t, records, 113)
	assert.Equal(t, 3, stats.Pages)
	assert.GreaterOrEqual(t, elapsed, 2*delay, "one pause after each of the first two pages")
	assert.Less(t, elapsed, 3*delay, "no pause after the last page")
}

func TestFetchCancelledDuringPauseKeepsPartial(t *testing.T) {
	ls := &listingServer{}
	srv := httptest.NewServer(ls.handler(t, 50, []int{50, 50, 50}, -1))
	defer srv.Close()
	setSearchURL(t, srv.URL)

	f := newTestFetcher(50)
	f.PageDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	records, stats, err := f.Fetch(ctx, "graph networks", 150)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Len(t, records, 50)
	assert.Equal(t, 1, stats.Pages)
	assert.Equal(t, []int{0}, ls.starts)
}
