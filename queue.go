package gd

import (
	"context"
	"sync"
)

// Queue carries work from any goroutine to the goroutine that owns a
// Device. Producers Post tasks; the owner waits on Wake and calls Pump,
// which runs every queued task to completion before returning.
//
// Example host loop:
//
//	for {
//	    select {
//	    case <-q.Wake():
//	        q.Pump()
//	    case ev := <-events:
//	        handle(dev, ev)
//	    }
//	}
//
// The queue is unbounded and safe for concurrent use.
type Queue struct {
	mu    sync.Mutex
	tasks []func()
	wake  chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Post queues f and signals Wake. It never blocks.
func (q *Queue) Post(f func()) {
	q.mu.Lock()
	q.tasks = append(q.tasks, f)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Wake returns a channel that receives a value after tasks are posted.
// Several posts may be coalesced into one signal.
func (q *Queue) Wake() <-chan struct{} { return q.wake }

// Pump runs queued tasks in posting order until the queue is empty and
// returns how many ran. Tasks posted while pumping run in the same call.
func (q *Queue) Pump() int {
	n := 0
	for {
		q.mu.Lock()
		batch := q.tasks
		q.tasks = nil
		q.mu.Unlock()

		if len(batch) == 0 {
			return n
		}
		for _, f := range batch {
			f()
			n++
		}
	}
}

// Len returns the number of tasks waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Serve pumps the queue whenever it is woken, until ctx is done.
func (q *Queue) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.wake:
			q.Pump()
		}
	}
}

// Call posts fn to q and blocks until a pump has run it or ctx is done.
// A task whose context is already done when its turn comes is skipped.
//
// Example, rendering from a request goroutine:
//
//	res, err := gd.Call(ctx, q, func() (gd.Result, error) {
//	    return dev.Render(index, w, h, zoom, "svg")
//	})
func Call[T any](ctx context.Context, q *Queue, fn func() (T, error)) (T, error) {
	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	q.Post(func() {
		if err := ctx.Err(); err != nil {
			done <- result{err: err}
			return
		}
		v, err := fn()
		done <- result{v: v, err: err}
	})

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
