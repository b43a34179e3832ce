// Package memory provides an in-memory presentation sink. It keeps the
// rendered elements in a container the way a page would, which makes it the
// sink of choice for tests and headless runs.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/okian/janus/internal/domain/history"
	"github.com/okian/janus/internal/domain/model"
)

// Count is one SetCount call.
type Count struct {
	Snapshot model.Snapshot
	Invalid  bool
}

// Sink records every presentation call. It is safe for concurrent use.
type Sink struct {
	mu        sync.Mutex
	counts    []Count
	container []history.Element // head first, like the records container
	evicted   []history.Row
	cleared   []history.Element
	alerts    int
	notices   []model.Notice
}

// New returns an empty sink.
func New() *Sink {
	return &Sink{}
}

// SetCount records the displayed count and its validity flag.
func (s *Sink) SetCount(_ context.Context, snap model.Snapshot, invalid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = append(s.counts, Count{Snapshot: snap, Invalid: invalid})
}

// RenderRecord prepends the row elements to the container.
func (s *Sink) RenderRecord(_ context.Context, row history.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.container = append(slices.Clone(row.Elements[:]), s.container...)
}

// EvictRecord removes the row elements from the container.
func (s *Sink) EvictRecord(_ context.Context, row history.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evicted = append(s.evicted, row)
	s.container = slices.DeleteFunc(s.container, func(e history.Element) bool {
		for _, gone := range row.Elements {
			if gone.ID == e.ID {
				return true
			}
		}
		return false
	})
}

// ClearHighlight replaces the stored element with its cleared form.
func (s *Sink) ClearHighlight(_ context.Context, el history.Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared = append(s.cleared, el)
	for i := range s.container {
		if s.container[i].ID == el.ID {
			s.container[i] = el
		}
	}
}

// PlayAlert counts an alert.
func (s *Sink) PlayAlert(context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts++
}

// Notify records the notice.
func (s *Sink) Notify(_ context.Context, n model.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, n)
}

// Counts returns every SetCount call in order.
func (s *Sink) Counts() []Count {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.counts)
}

// LastCount returns the most recent SetCount call.
func (s *Sink) LastCount() (Count, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.counts) == 0 {
		return Count{}, false
	}
	return s.counts[len(s.counts)-1], true
}

// Elements returns the rendered elements, most recent first.
func (s *Sink) Elements() []history.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.container)
}

// Evicted returns evicted rows in eviction order.
func (s *Sink) Evicted() []history.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.evicted)
}

// Cleared returns elements whose highlight was cleared.
func (s *Sink) Cleared() []history.Element {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cleared)
}

// Alerts returns how many alerts were played.
func (s *Sink) Alerts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alerts
}

// Notices returns surfaced notices in order.
func (s *Sink) Notices() []model.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.notices)
}
