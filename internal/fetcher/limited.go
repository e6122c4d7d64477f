// Package fetcher composes transport fetchers with the shared slot limiter.
package fetcher

import (
	"context"

	"github.com/JakeFAU/resume-link-scraper/internal/scrape"
)

// SlotLimiter hands out fetch slots; the returned func gives the slot back.
type SlotLimiter interface {
	Acquire(ctx context.Context) (func(), error)
}

// Limited runs every fetch of the wrapped Fetcher inside a limiter slot. The
// slot is released on every exit path, errors and timeouts included.
type Limited struct {
	next    scrape.Fetcher
	limiter SlotLimiter
}

// NewLimited wraps next with limiter.
func NewLimited(next scrape.Fetcher, limiter SlotLimiter) *Limited {
	return &Limited{next: next, limiter: limiter}
}

// Fetch waits for a slot, fetches, then releases the slot after pacing.
func (l *Limited) Fetch(ctx context.Context, rawURL string) (scrape.Page, error) {
	release, err := l.limiter.Acquire(ctx)
	if err != nil {
		return scrape.Page{}, &scrape.FetchError{Kind: scrape.ErrorKindCanceled, URL: rawURL, Err: err}
	}
	defer release()
	return l.next.Fetch(ctx, rawURL)
}
