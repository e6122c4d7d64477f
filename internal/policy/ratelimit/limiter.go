// Package ratelimit bounds outbound fetches with a shared slot semaphore, a
// pacing delay observed before each slot is released, and an optional global
// request rate.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/JakeFAU/resume-link-scraper/internal/metrics"
)

// Config holds limiter configuration.
type Config struct {
	// MaxConcurrency is the number of fetch slots; values below 1 are treated as 1.
	MaxConcurrency int
	// Delay is slept while still holding the slot, after the fetch finished.
	Delay time.Duration
	// RequestsPerSecond caps the global request rate; 0 disables it.
	RequestsPerSecond float64
}

// Limiter hands out fetch slots. One Limiter is shared by every task of a process.
type Limiter struct {
	sem   *semaphore.Weighted
	rate  *rate.Limiter
	delay time.Duration
	slots int
	sleep func(time.Duration)
}

// New creates a new Limiter.
func New(cfg Config) *Limiter {
	slots := cfg.MaxConcurrency
	if slots < 1 {
		slots = 1
	}
	l := &Limiter{
		sem:   semaphore.NewWeighted(int64(slots)),
		delay: max(cfg.Delay, 0),
		slots: slots,
		sleep: time.Sleep,
	}
	if cfg.RequestsPerSecond > 0 {
		l.rate = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return l
}

// Slots returns the semaphore size.
func (l *Limiter) Slots() int { return l.slots }

// Acquire blocks until a slot is free (and, when configured, a rate token is
// available). The returned release func sleeps the pacing delay and then frees
// the slot; it is safe to call more than once.
func (l *Limiter) Acquire(ctx context.Context) (func(), error) {
	start := time.Now()
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire fetch slot: %w", err)
	}
	if l.rate != nil {
		if err := l.rate.Wait(ctx); err != nil {
			l.sem.Release(1)
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}
	metrics.ObserveSlotWait(time.Since(start))
	metrics.IncActiveFetches()

	var once sync.Once
	return func() {
		once.Do(func() {
			if l.delay > 0 {
				l.sleep(l.delay)
			}
			metrics.DecActiveFetches()
			l.sem.Release(1)
		})
	}, nil
}
