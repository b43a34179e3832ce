// Package intent sends the viewer's +1/-1 requests. It never changes local
// state; the count only moves when the server broadcasts the result.
package intent

import (
	"context"
	"fmt"

	"github.com/okian/janus/internal/domain/model"
	"github.com/okian/janus/pkg/logger"
	"github.com/okian/janus/pkg/metrics"
)

// Emitter sends a named event over the channel.
type Emitter interface {
	Emit(ctx context.Context, event string, payload any) error
}

// Notifier surfaces non-fatal notices to the viewer.
type Notifier interface {
	Notify(ctx context.Context, n model.Notice)
}

// Submitter emits update intents.
type Submitter struct {
	emitter  Emitter
	notifier Notifier
	logger   logger.Logger
}

// New creates a submitter. A nil emitter yields an inert submitter that
// drops every intent, for when the channel could not be opened.
func New(emitter Emitter, notifier Notifier, opts ...Option) *Submitter {
	s := &Submitter{
		emitter:  emitter,
		notifier: notifier,
		logger:   logger.Get().Named("intent"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Inert reports whether intents are dropped.
func (s *Submitter) Inert() bool {
	return s.emitter == nil
}

// Submit sends delta as an update. Only +1 and -1 are legal.
func (s *Submitter) Submit(ctx context.Context, delta int64) error {
	if delta != 1 && delta != -1 {
		metrics.RecordIntent(metrics.IntentIllegal)
		return fmt.Errorf("%w: got %d", ErrIllegalIntent, delta)
	}
	if s.Inert() {
		metrics.RecordIntent(metrics.IntentInert)
		s.logger.Debug(ctx, "dropping intent; channel unavailable", logger.Int64("delta", delta))
		return nil
	}

	if err := s.emitter.Emit(ctx, model.EventUpdate, delta); err != nil {
		s.logger.Error(ctx, "update emit failed", logger.Int64("delta", delta), logger.Error(err))
		s.notifier.Notify(ctx, model.NewNotice(model.NoticeIntentFailed))
		metrics.RecordNotice(string(model.NoticeIntentFailed))
		metrics.RecordIntent(metrics.IntentFailed)
		return fmt.Errorf("%w: %w", ErrNotSent, err)
	}

	metrics.RecordIntent(metrics.IntentSent)
	return nil
}
