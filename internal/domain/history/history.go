package history

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Defaults for the view.
const (
	DefaultMaxRows        = 20
	DefaultHighlightDelay = 100 * time.Millisecond
)

// entry is a stored row plus the pending highlight timers of its elements.
type entry struct {
	row    Row
	timers [facetsPerRow]clockwork.Timer
}

// View is the bounded history. Rows are kept most recent first; inserts go to
// the head and evictions remove whole rows from the tail.
type View struct {
	mu        sync.Mutex
	rows      []*entry // rows[0] is the most recent
	byElement map[string]*entry

	maxRows   int
	highlight time.Duration
	clock     clockwork.Clock
	onClear   func(Element)
}

// New creates an empty view.
func New(opts ...Option) *View {
	v := &View{
		maxRows:   DefaultMaxRows,
		highlight: DefaultHighlightDelay,
		clock:     clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.rows = make([]*entry, 0, v.maxRows+1)
	v.byElement = make(map[string]*entry, (v.maxRows+1)*facetsPerRow)
	return v
}

// Insert puts row at the head and evicts rows from the tail until the bound
// holds. Evicted rows are returned oldest first; their pending timers are
// cancelled. Highlight clears are not scheduled until Arm is called, so a
// clear never reaches the sink before the row is rendered.
func (v *View) Insert(row Row) []Row {
	v.mu.Lock()
	defer v.mu.Unlock()

	e := &entry{row: row.clone()}
	v.rows = append(v.rows, nil)
	copy(v.rows[1:], v.rows)
	v.rows[0] = e

	for i := range e.row.Elements {
		v.byElement[e.row.Elements[i].ID] = e
	}

	var evicted []Row
	for len(v.rows) > v.maxRows {
		last := len(v.rows) - 1
		old := v.rows[last]
		v.rows[last] = nil
		v.rows = v.rows[:last]

		for i, t := range old.timers {
			if t != nil {
				t.Stop()
			}
			delete(v.byElement, old.row.Elements[i].ID)
		}
		evicted = append(evicted, old.row.clone())
	}
	return evicted
}

// Arm schedules the highlight clear of each element of row that still
// carries newRecord. Rows no longer in the view are ignored, as are elements
// already armed.
func (v *View) Arm(row Row) {
	v.mu.Lock()
	defer v.mu.Unlock()

	e, ok := v.byElement[row.Elements[0].ID]
	if !ok {
		return
	}
	for i := range e.row.Elements {
		if e.timers[i] != nil || !e.row.Elements[i].Has(ClassNew) {
			continue
		}
		id := e.row.Elements[i].ID
		e.timers[i] = v.clock.AfterFunc(v.highlight, func() { v.clearHighlight(id) })
	}
}

// clearHighlight drops the newRecord class from an element still in the view.
func (v *View) clearHighlight(id string) {
	v.mu.Lock()
	e, ok := v.byElement[id]
	if !ok {
		v.mu.Unlock()
		return
	}
	var (
		cleared Element
		changed bool
	)
	for i := range e.row.Elements {
		if e.row.Elements[i].ID == id {
			changed = e.row.Elements[i].remove(ClassNew)
			e.timers[i] = nil
			cleared = e.row.Elements[i].clone()
			break
		}
	}
	fn := v.onClear
	v.mu.Unlock()

	if changed && fn != nil {
		fn(cleared)
	}
}

// Rows returns a copy of the rows, most recent first.
func (v *View) Rows() []Row {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]Row, len(v.rows))
	for i, e := range v.rows {
		out[i] = e.row.clone()
	}
	return out
}

// Len returns the number of rows held.
func (v *View) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.rows)
}

// MaxRows returns the retention bound.
func (v *View) MaxRows() int {
	return v.maxRows
}

// Close cancels every pending highlight timer.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, e := range v.rows {
		for i, t := range e.timers {
			if t != nil {
				t.Stop()
				e.timers[i] = nil
			}
		}
	}
}
