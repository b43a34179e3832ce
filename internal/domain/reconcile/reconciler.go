// Package reconcile folds the server's broadcast stream into local view state.
//
// The reconciler expects ordered, non-duplicated delivery from its transport
// and performs no sequence checking of its own. Apply and ApplyJoin must be
// called from a single goroutine.
package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/okian/janus/internal/domain/history"
	"github.com/okian/janus/internal/domain/model"
	"github.com/okian/janus/pkg/logger"
	"github.com/okian/janus/pkg/metrics"
)

// Outcome is the terminal state of one inbound event.
type Outcome int

const (
	Rejected Outcome = iota + 1
	Invalid
	Applied
)

func (o Outcome) String() string {
	switch o {
	case Rejected:
		return metrics.OutcomeRejected
	case Invalid:
		return metrics.OutcomeInvalid
	case Applied:
		return metrics.OutcomeApplied
	default:
		return "unknown"
	}
}

// State is a consistent copy of the view state.
type State struct {
	Snapshot model.Snapshot
	Invalid  bool
	Rows     []history.Row
}

// Reconciler mirrors the authoritative counter and the recent history.
type Reconciler struct {
	id       model.Identity
	sink     Sink
	notifier Notifier
	mute     MuteToggle
	logger   logger.Logger

	historyOpts []history.Option
	view        *history.View

	mu       sync.RWMutex
	snapshot model.Snapshot
}

// New creates a reconciler for the viewer id.
func New(id model.Identity, sink Sink, notifier Notifier, opts ...Option) *Reconciler {
	r := &Reconciler{
		id:       id,
		sink:     sink,
		notifier: notifier,
		mute:     unmuted{},
		logger:   logger.Get().Named("reconciler"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.view = history.New(append(r.historyOpts, history.WithHighlightCleared(r.highlightCleared))...)
	return r
}

// Apply processes one update broadcast.
func (r *Reconciler) Apply(ctx context.Context, raw json.RawMessage) Outcome {
	start := time.Now()
	defer func() {
		metrics.RecordReconcileLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	rec, err := model.ParseUpdate(raw)
	switch {
	case errors.Is(err, model.ErrFailureSentinel):
		r.logger.Warn(ctx, "server rejected the most recent update")
		r.notify(ctx, model.NoticeUpdateRejected)
		metrics.RecordBroadcast(metrics.OutcomeRejected)
		return Rejected
	case err != nil:
		r.logger.Warn(ctx, "dropping malformed update", logger.Error(err))
		r.notify(ctx, model.NoticeMalformedBroadcast)
		metrics.RecordBroadcast(metrics.OutcomeInvalid)
		return Invalid
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.setCount(ctx, rec.Value)
	r.fold(ctx, rec)

	r.logger.Debug(ctx, "applied update",
		logger.String("user", rec.User),
		logger.Int64("value", rec.Value),
		logger.Int64("change", rec.Change),
	)
	metrics.RecordBroadcast(metrics.OutcomeApplied)
	return Applied
}

// ApplyJoin processes the join acknowledgment. It only updates the count;
// a join reflects current state, not a change event.
func (r *Reconciler) ApplyJoin(ctx context.Context, raw json.RawMessage) Outcome {
	v, err := model.ParseJoin(raw)
	if err != nil {
		outcome := Invalid
		if errors.Is(err, model.ErrFailureSentinel) {
			outcome = Rejected
		}
		r.logger.Warn(ctx, "join response invalid", logger.Error(err))
		r.notify(ctx, model.NoticeJoinRejected)
		metrics.RecordJoin(outcome.String())
		return outcome
	}

	r.mu.Lock()
	r.setCount(ctx, v)
	r.mu.Unlock()

	r.logger.Info(ctx, "joined live session", logger.Int64("count", v))
	metrics.RecordJoin(metrics.OutcomeApplied)
	return Applied
}

// setCount replaces the snapshot and pushes it with its validity. Callers hold mu.
func (r *Reconciler) setCount(ctx context.Context, value int64) {
	r.snapshot = model.Snapshot{Value: value, Set: true}
	invalid := r.id.Invalid(value)
	r.sink.SetCount(ctx, r.snapshot, invalid)
	metrics.UpdateCounter(value, invalid)
}

// fold renders rec into the history view. Callers hold mu.
func (r *Reconciler) fold(ctx context.Context, rec model.UpdateRecord) {
	row := history.NewRow(rec, r.id)

	if row.Own() && !r.mute.Checked() {
		r.sink.PlayAlert(ctx)
		metrics.RecordAlert()
	}

	evicted := r.view.Insert(row)
	r.sink.RenderRecord(ctx, row)
	for _, old := range evicted {
		r.sink.EvictRecord(ctx, old)
		metrics.RecordHistoryEviction()
	}
	r.view.Arm(row)
	metrics.UpdateHistoryRows(r.view.Len())
}

func (r *Reconciler) highlightCleared(el history.Element) {
	r.sink.ClearHighlight(context.Background(), el)
}

func (r *Reconciler) notify(ctx context.Context, kind model.NoticeKind) {
	r.notifier.Notify(ctx, model.NewNotice(kind))
	metrics.RecordNotice(string(kind))
}

// State returns the current snapshot, its validity and the history rows.
func (r *Reconciler) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return State{
		Snapshot: r.snapshot,
		Invalid:  r.snapshot.Set && r.id.Invalid(r.snapshot.Value),
		Rows:     r.view.Rows(),
	}
}

// Identity returns the viewer configuration.
func (r *Reconciler) Identity() model.Identity {
	return r.id
}

// Close cancels pending highlight timers.
func (r *Reconciler) Close() {
	r.view.Close()
}
