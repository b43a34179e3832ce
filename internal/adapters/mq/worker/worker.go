// Package worker drains the inbound queue into the reconciler.
//
// There is exactly one worker per connection: frames are reconciled one at a
// time, to completion, in arrival order.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/okian/janus/internal/adapters/mq/queue"
	"github.com/okian/janus/internal/domain/model"
	"github.com/okian/janus/internal/domain/reconcile"
	"github.com/okian/janus/pkg/logger"
)

// Event abstracts what the worker reads off the queue.
type Event = queue.Event

// Reconciler folds server events into view state.
type Reconciler interface {
	Apply(ctx context.Context, raw json.RawMessage) reconcile.Outcome
	ApplyJoin(ctx context.Context, raw json.RawMessage) reconcile.Outcome
}

// Queue defines how the worker receives frames.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker dispatches frames until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker once the frame in hand is finished.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker routes join replies and update broadcasts to the reconciler.
type InMemoryWorker struct {
	queue      Queue
	reconciler Reconciler
	name       string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, reconciler Reconciler, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:      queue,
		reconciler: reconciler,
		name:       "worker",
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		logger:     logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			w.dispatch(ctx, event)
		}
	}
}

// Shutdown stops the worker and waits for it to return.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

func (w *InMemoryWorker) dispatch(ctx context.Context, event Event) {
	var outcome reconcile.Outcome
	switch event.Event {
	case model.EventJoin:
		outcome = w.reconciler.ApplyJoin(ctx, event.Data)
	case model.EventUpdate:
		outcome = w.reconciler.Apply(ctx, event.Data)
	default:
		w.logger.Debug(ctx, "ignoring unknown event", logger.String("event", event.Event))
		return
	}
	w.logger.Debug(ctx, "event reconciled",
		logger.String("event", event.Event),
		logger.String("outcome", outcome.String()),
	)
}
