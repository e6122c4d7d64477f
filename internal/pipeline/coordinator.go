// Package pipeline runs scrape batches: a fixed pool of workers drains a task
// queue built from the candidate URLs and places each result by position.
package pipeline

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/JakeFAU/resume-link-scraper/internal/metrics"
	"github.com/JakeFAU/resume-link-scraper/internal/queue/memory"
	"github.com/JakeFAU/resume-link-scraper/internal/scrape"
)

// Coordinator fans a batch out to a worker pool and joins before returning.
type Coordinator struct {
	fetcher   scrape.Fetcher
	extractor scrape.ContentExtractor
	workers   int
	clock     scrape.Clock
	ids       scrape.IDGenerator
	logger    *zap.Logger
}

// NewCoordinator constructs a Coordinator running at most workers tasks at once.
func NewCoordinator(
	fetcher scrape.Fetcher,
	extractor scrape.ContentExtractor,
	workers int,
	clock scrape.Clock,
	ids scrape.IDGenerator,
	logger *zap.Logger,
) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = 1
	}
	return &Coordinator{
		fetcher:   fetcher,
		extractor: extractor,
		workers:   workers,
		clock:     clock,
		ids:       ids,
		logger:    logger.Named("pipeline"),
	}
}

// Run scrapes every URL and returns results in input order. Task failures are
// carried in the results; Run itself does not fail.
func (c *Coordinator) Run(ctx context.Context, urls []scrape.CandidateURL) scrape.Response {
	results := make([]scrape.Result, len(urls))
	if len(urls) == 0 {
		return scrape.Response{ScrapedData: results}
	}

	logger := c.logger.With(zap.String("run_id", c.runID()))
	start := c.clock.Now()

	queue := memory.NewQueue(len(urls))
	for i, u := range urls {
		task := scrape.Task{URL: u, Position: i}
		// the queue holds the whole batch, so this never blocks
		if err := queue.Enqueue(context.WithoutCancel(ctx), task); err != nil {
			results[i] = scrape.FailureFromError(u.String(), err)
		}
	}
	queue.Close()

	pool := min(c.workers, len(urls))
	logger.Info("scrape run started", zap.Int("urls", len(urls)), zap.Int("workers", pool))

	var wg sync.WaitGroup
	for i := range pool {
		wg.Add(1)
		w := NewWorker(c.fetcher, c.extractor, logger.With(zap.Int("worker", i)))
		go func() {
			defer wg.Done()
			w.Run(ctx, queue, func(task scrape.Task, res scrape.Result) {
				// positions are unique, so workers never share a slot
				results[task.Position] = res
			})
		}()
	}
	wg.Wait()

	resp := scrape.Response{ScrapedData: results}
	succeeded, failed := resp.Counts()
	elapsed := c.clock.Now().Sub(start)
	metrics.ObserveRun(elapsed)
	logger.Info("scrape run finished",
		zap.Int("succeeded", succeeded),
		zap.Int("failed", failed),
		zap.Duration("duration", elapsed),
	)
	return resp
}

func (c *Coordinator) runID() string {
	if c.ids == nil {
		return ""
	}
	id, err := c.ids.NewID()
	if err != nil {
		c.logger.Warn("run id generation failed", zap.Error(err))
		return ""
	}
	return id
}
