// Package presentation holds view-side state shared by the presentation sinks.
package presentation

import "sync/atomic"

// Toggle is the mute control. Checked means muted.
type Toggle struct {
	checked atomic.Bool
}

// NewToggle returns a toggle in the given state.
func NewToggle(checked bool) *Toggle {
	t := &Toggle{}
	t.checked.Store(checked)
	return t
}

// Checked reports whether the toggle is checked.
func (t *Toggle) Checked() bool {
	return t.checked.Load()
}

// Set changes the toggle state.
func (t *Toggle) Set(checked bool) {
	t.checked.Store(checked)
}

// Flip inverts the toggle and returns the new state.
func (t *Toggle) Flip() bool {
	for {
		old := t.checked.Load()
		if t.checked.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
