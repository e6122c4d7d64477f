package fetcher

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/resume-link-scraper/internal/policy/ratelimit"
	"github.com/JakeFAU/resume-link-scraper/internal/scrape"
)

type countingFetcher struct {
	inFlight atomic.Int64
	peak     atomic.Int64
	hold     time.Duration
	err      error
}

func (f *countingFetcher) Fetch(_ context.Context, rawURL string) (scrape.Page, error) {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		old := f.peak.Load()
		if cur <= old || f.peak.CompareAndSwap(old, cur) {
			break
		}
	}
	time.Sleep(f.hold)
	if f.err != nil {
		return scrape.Page{}, f.err
	}
	return scrape.Page{URL: rawURL, StatusCode: 200}, nil
}

func TestLimitedBoundsInFlightFetches(t *testing.T) {
	t.Parallel()

	inner := &countingFetcher{hold: 10 * time.Millisecond}
	f := NewLimited(inner, ratelimit.New(ratelimit.Config{MaxConcurrency: 2}))

	var wg sync.WaitGroup
	for range 12 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.Fetch(context.Background(), "https://example.com"); err != nil {
				t.Errorf("fetch: %v", err)
			}
		}()
	}
	wg.Wait()
	require.LessOrEqual(t, inner.peak.Load(), int64(2))
}

func TestLimitedReleasesSlotOnError(t *testing.T) {
	t.Parallel()

	inner := &countingFetcher{err: &scrape.FetchError{Kind: scrape.ErrorKindTimeout, Budget: time.Second}}
	f := NewLimited(inner, ratelimit.New(ratelimit.Config{MaxConcurrency: 1}))

	for range 3 {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_, err := f.Fetch(ctx, "https://example.com")
		cancel()
		var fe *scrape.FetchError
		require.ErrorAs(t, err, &fe)
		require.Equal(t, scrape.ErrorKindTimeout, fe.Kind)
	}
}

func TestLimitedReportsCanceledAcquire(t *testing.T) {
	t.Parallel()

	f := NewLimited(&countingFetcher{}, stubLimiter{err: context.Canceled})
	_, err := f.Fetch(context.Background(), "https://example.com")
	var fe *scrape.FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, scrape.ErrorKindCanceled, fe.Kind)
	require.True(t, errors.Is(err, context.Canceled))
}

type stubLimiter struct {
	err error
}

func (s stubLimiter) Acquire(context.Context) (func(), error) {
	if s.err != nil {
		return nil, s.err
	}
	return func() {}, nil
}
