// Package memory provides the bounded in-process task queue the pipeline
// workers drain.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/JakeFAU/resume-link-scraper/internal/scrape"
)

// ErrClosed is returned by Dequeue once the queue is closed and drained.
var ErrClosed = errors.New("queue closed")

// Queue is a bounded in-memory queue with context-aware operations.
type Queue struct {
	ch      chan scrape.Task
	closeMu sync.Mutex
	closed  bool
}

// NewQueue constructs a new queue with the provided capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{
		ch: make(chan scrape.Task, capacity),
	}
}

// Enqueue pushes a task into the queue or returns if the context ends.
func (q *Queue) Enqueue(ctx context.Context, task scrape.Task) error {
	// holding the lock keeps Close from racing a send
	q.closeMu.Lock()
	defer q.closeMu.Unlock()
	if q.closed {
		return ErrClosed
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("enqueue canceled: %w", ctx.Err())
	case q.ch <- task:
		return nil
	}
}

// Dequeue pops the next task, respecting context cancellation. Tasks enqueued
// before Close are still handed out; ErrClosed follows once they are gone.
func (q *Queue) Dequeue(ctx context.Context) (scrape.Task, error) {
	select {
	case <-ctx.Done():
		return scrape.Task{}, fmt.Errorf("dequeue canceled: %w", ctx.Err())
	case task, ok := <-q.ch:
		if !ok {
			return scrape.Task{}, ErrClosed
		}
		return task, nil
	}
}

// Len reports how many tasks are waiting.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Close stops further enqueues. It is safe to call more than once.
func (q *Queue) Close() {
	q.closeMu.Lock()
	defer q.closeMu.Unlock()
	if q.closed {
		return
	}
	close(q.ch)
	q.closed = true
}
