package history

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Option applies a configuration option to the View.
type Option func(*View)

// WithMaxRows bounds the number of rows kept.
func WithMaxRows(n int) Option {
	return func(v *View) {
		if n > 0 {
			v.maxRows = n
		}
	}
}

// WithHighlightDelay sets how long new elements keep the newRecord class.
func WithHighlightDelay(d time.Duration) Option {
	return func(v *View) {
		if d >= 0 {
			v.highlight = d
		}
	}
}

// WithClock replaces the clock used for highlight timers.
func WithClock(clock clockwork.Clock) Option {
	return func(v *View) {
		if clock != nil {
			v.clock = clock
		}
	}
}

// WithHighlightCleared registers a callback run after an element loses the
// newRecord class. It runs on the timer goroutine, outside the view lock.
func WithHighlightCleared(fn func(Element)) Option {
	return func(v *View) {
		v.onClear = fn
	}
}
