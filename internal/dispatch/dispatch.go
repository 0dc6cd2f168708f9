// Package dispatch runs fire-and-forget work, such as persistence writes,
// off the caller's goroutine in submission order.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

const (
	defaultBuffer      = 256
	defaultTaskTimeout = 10 * time.Second
)

// Func is a unit of work. Its context carries the submitter's values but
// not its cancellation, and is bounded by the queue's task timeout.
type Func func(ctx context.Context) error

// Options configures a Queue.
type Options struct {
	// Buffer is the number of tasks that may wait. Submissions beyond it
	// are dropped.
	Buffer int

	// TaskTimeout bounds each task.
	TaskTimeout time.Duration

	Logger *slog.Logger
}

type task struct {
	ctx  context.Context
	name string
	fn   Func
}

// Queue is a single-worker FIFO. Caller should call Close for graceful
// shutdown of the queue.
type Queue struct {
	tasks   chan task
	timeout time.Duration
	logger  *slog.Logger
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// New starts a queue with its worker goroutine.
func New(opts Options) *Queue {
	if opts.Buffer <= 0 {
		opts.Buffer = defaultBuffer
	}
	if opts.TaskTimeout <= 0 {
		opts.TaskTimeout = defaultTaskTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	q := &Queue{
		tasks:   make(chan task, opts.Buffer),
		timeout: opts.TaskTimeout,
		logger:  opts.Logger,
		done:    make(chan struct{}),
	}
	go q.run()
	return q
}

// Submit enqueues fn without blocking. It reports false when the task was
// dropped because the queue is full or closed.
func (q *Queue) Submit(ctx context.Context, name string, fn Func) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.logger.WarnContext(ctx, "dispatch: queue closed, task dropped", "task", name)
		return false
	}

	select {
	case q.tasks <- task{ctx: ctx, name: name, fn: fn}:
		return true
	default:
		q.logger.WarnContext(ctx, "dispatch: queue full, task dropped", "task", name)
		return false
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	q.mu.Unlock()

	<-q.done
}

func (q *Queue) run() {
	defer close(q.done)
	for t := range q.tasks {
		q.exec(t)
	}
}

func (q *Queue) exec(t task) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(t.ctx), q.timeout)
	defer func() {
		if r := recover(); r != nil {
			q.logger.ErrorContext(ctx, "dispatch: task panic",
				"task", t.name,
				"error", fmt.Errorf("%v, stack: %s", r, debug.Stack()),
			)
		}
		cancel()
	}()

	if err := t.fn(ctx); err != nil {
		q.logger.ErrorContext(ctx, "dispatch: task failed",
			"task", t.name,
			"error", err,
		)
	}
}
