// Package queue buffers submitted measurements between the HTTP layer and the
// evaluation workers.
package queue

import (
	"context"
	"sync"

	"github.com/okian/sportgrade/internal/domain/model"
	"github.com/okian/sportgrade/pkg/metrics"
)

const defaultQueueCapacity = 10_000

// Item is what flows through the queue.
type Item = model.Measurement

// Queue offers non-blocking enqueue and channel-based dequeue.
type Queue interface {
	// Enqueue adds an item or fails with ErrFull, ErrClosed or the context
	// error. It never blocks.
	Enqueue(ctx context.Context, it Item) error

	// Dequeue returns a channel of items. It is closed once the queue is
	// closed and drained; consumers stop on their own context.
	Dequeue(ctx context.Context) <-chan Item

	Len(ctx context.Context) int
	Close() error
	IsClosed() bool
}

// InMemoryQueue is a bounded buffered channel.
type InMemoryQueue struct {
	items    chan Item
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan Item, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue adds an item to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, it Item) error { //nolint:gocritic // hugeParam: items are passed by value through the channel
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError()
		return err
	}

	select {
	case q.items <- it:
		metrics.RecordQueueEnqueue()
		metrics.UpdateQueueSize(len(q.items))
		return nil
	default:
		metrics.RecordQueueEnqueueError()
		return ErrFull
	}
}

// Dequeue returns the shared item channel. Consumers receive straight from
// the buffer, so Len counts every item no consumer has taken yet.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Item {
	return q.items
}

// Len returns the number of queued items.
func (q *InMemoryQueue) Len(_ context.Context) int {
	n := len(q.items)
	metrics.UpdateQueueSize(n)
	return n
}

// Close stops accepting items. Already queued items can still be dequeued.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
