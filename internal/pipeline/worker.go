package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/JakeFAU/resume-link-scraper/internal/metrics"
	"github.com/JakeFAU/resume-link-scraper/internal/queue/memory"
	"github.com/JakeFAU/resume-link-scraper/internal/scrape"
)

// TaskSource hands out tasks until it is closed and drained.
type TaskSource interface {
	Dequeue(ctx context.Context) (scrape.Task, error)
}

// Worker drives tasks through fetch and extraction.
type Worker struct {
	fetcher   scrape.Fetcher
	extractor scrape.ContentExtractor
	logger    *zap.Logger
}

// NewWorker constructs a Worker.
func NewWorker(fetcher scrape.Fetcher, extractor scrape.ContentExtractor, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{fetcher: fetcher, extractor: extractor, logger: logger}
}

// Run processes tasks until the source is drained. Every dequeued task is
// reported to sink exactly once, with a terminal result.
func (w *Worker) Run(ctx context.Context, tasks TaskSource, sink func(scrape.Task, scrape.Result)) {
	// dispatched tasks always run to a terminal state, so draining ignores cancellation
	drainCtx := context.WithoutCancel(ctx)
	for {
		task, err := tasks.Dequeue(drainCtx)
		if err != nil {
			if !errors.Is(err, memory.ErrClosed) {
				w.logger.Error("dequeue failed", zap.Error(err))
			}
			return
		}
		sink(task, w.Process(ctx, task))
	}
}

// Process runs one task: fetch, then extract only when the fetch succeeded.
// A panic is recorded as an internal error for this task alone.
func (w *Worker) Process(ctx context.Context, task scrape.Task) (res scrape.Result) {
	url := task.URL.String()
	logger := w.logger.With(zap.Int("position", task.Position), zap.String("url", url))
	state := scrape.TaskPending
	transition := func(next scrape.TaskState) {
		logger.Debug("task transition", zap.String("from", string(state)), zap.String("to", string(next)))
		state = next
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panicked", zap.Any("panic", r), zap.String("state", string(state)))
			res = scrape.Failed(url, scrape.ErrorKindInternal, fmt.Sprintf("internal error: %v", r))
		}
		kind := ""
		if failure, ok := res.Failure(); ok {
			kind = string(failure.Kind)
		}
		metrics.ObserveResult(string(res.Status()), kind)
	}()

	transition(scrape.TaskFetching)
	page, err := w.fetcher.Fetch(ctx, url)
	if err != nil {
		transition(scrape.TaskFailed)
		return scrape.FailureFromError(url, err)
	}

	transition(scrape.TaskExtracting)
	text, err := w.extractor.Extract(page.Body, page.ContentType)
	if err != nil {
		transition(scrape.TaskFailed)
		return scrape.FailureFromError(url, err)
	}

	transition(scrape.TaskSucceeded)
	return scrape.Succeeded(url, text)
}
