package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JakeFAU/resume-link-scraper/internal/scrape"
)

type fakeFetcher struct {
	delays map[string]time.Duration
	errs   map[string]error
	panics map[string]bool

	active atomic.Int32
	peak   atomic.Int32
	calls  atomic.Int32
}

func (f *fakeFetcher) Fetch(ctx context.Context, rawURL string) (scrape.Page, error) {
	f.calls.Add(1)
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	if f.panics[rawURL] {
		panic("boom")
	}
	if d := f.delays[rawURL]; d > 0 {
		time.Sleep(d)
	}
	if err := f.errs[rawURL]; err != nil {
		return scrape.Page{}, err
	}
	return scrape.Page{
		URL:         rawURL,
		FinalURL:    rawURL,
		StatusCode:  200,
		ContentType: "text/html; charset=utf-8",
		Body:        []byte("body of " + rawURL),
	}, nil
}

type fakeExtractor struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]bool
}

func (e *fakeExtractor) Extract(body []byte, _ string) (string, error) {
	e.mu.Lock()
	e.calls = append(e.calls, string(body))
	e.mu.Unlock()
	text := strings.TrimPrefix(string(body), "body of ")
	if e.fail[text] {
		return "", &scrape.ExtractionError{Reason: "no main content extracted"}
	}
	return "text for " + text, nil
}

func (e *fakeExtractor) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type staticIDs struct{ err error }

func (s staticIDs) NewID() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "run-1", nil
}

type fakeLinks struct {
	links []string
	err   error
}

func (f fakeLinks) ExtractLinks([]byte, string) ([]string, error) {
	return f.links, f.err
}

type recordingRunner struct {
	mu   sync.Mutex
	runs [][]scrape.CandidateURL
}

func (r *recordingRunner) Run(_ context.Context, urls []scrape.CandidateURL) scrape.Response {
	r.mu.Lock()
	r.runs = append(r.runs, urls)
	r.mu.Unlock()
	results := make([]scrape.Result, len(urls))
	for i, u := range urls {
		results[i] = scrape.Succeeded(u.String(), "ok")
	}
	return scrape.Response{ScrapedData: results}
}

var errRefused = errors.New("connection refused")
