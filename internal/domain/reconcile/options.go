package reconcile

import (
	"github.com/okian/janus/internal/domain/history"
	"github.com/okian/janus/pkg/logger"
)

// Option applies a configuration option to the Reconciler.
type Option func(*Reconciler)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMuteToggle sets the control consulted before playing alerts.
func WithMuteToggle(t MuteToggle) Option {
	return func(r *Reconciler) {
		if t != nil {
			r.mute = t
		}
	}
}

// WithHistoryOptions configures the history view (bound, highlight delay, clock).
func WithHistoryOptions(opts ...history.Option) Option {
	return func(r *Reconciler) {
		r.historyOpts = append(r.historyOpts, opts...)
	}
}
