// Package queue buffers inbound frames between the read pump and the
// dispatcher. Frames leave in the order they arrived.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/okian/janus/internal/adapters/transport"
	"github.com/okian/janus/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Event represents the payload type flowing through the queue.
type Event = transport.Frame

// Queue is a FIFO of inbound frames.
type Queue interface {
	// Enqueue blocks until the frame is buffered, the context is done or the
	// queue is closed. Frames are never dropped to make room.
	Enqueue(ctx context.Context, e Event) error

	// Dequeue returns a channel of frames in arrival order. The channel is
	// closed when the queue is closed or ctx is done.
	Dequeue(ctx context.Context) <-chan Event

	// Len returns the current number of queued frames.
	Len(ctx context.Context) int

	// Close stops the queue. Frames still buffered are discarded.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	events   chan Event
	capacity int

	closeOnce sync.Once
	done      chan struct{}
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.events = make(chan Event, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	q.updateGauges()
	return q
}

// Enqueue adds a frame to the tail of the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Event) error {
	start := time.Now()
	defer func() {
		metrics.RecordQueueProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	select {
	case <-q.done:
		return ErrClosed
	default:
	}

	select {
	case q.events <- e:
		q.updateGauges()
		return nil
	case <-q.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue returns a channel that will receive frames as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		for {
			select {
			case e := <-q.events:
				q.updateGauges()
				select {
				case out <- e:
				case <-q.done:
					return
				case <-ctx.Done():
					return
				}
			case <-q.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued frames.
func (q *InMemoryQueue) Len(context.Context) int {
	return len(q.events)
}

// Close stops the queue. It is idempotent.
func (q *InMemoryQueue) Close() error {
	q.closeOnce.Do(func() { close(q.done) })
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	select {
	case <-q.done:
		return true
	default:
		return false
	}
}

func (q *InMemoryQueue) updateGauges() {
	size := len(q.events)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
