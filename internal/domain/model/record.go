// Package model contains domain models passed between layers.
package model

import (
	"time"
)

// UpdateRecord is one mutation applied by the server, as broadcast to every
// participant. Value is the counter after Change was applied.
type UpdateRecord struct {
	Timestamp time.Time
	User      string
	Value     int64
	Change    int64
}

// IsOwn reports whether the record was produced by the given identity.
func (r UpdateRecord) IsOwn(id Identity) bool {
	return r.User == id.OwnUsername
}

// Positive reports the direction class of the record. Zero counts as negative.
func (r UpdateRecord) Positive() bool {
	return r.Change > 0
}

// TimeOfDay renders the record time as HH:MM:SS in loc.
func (r UpdateRecord) TimeOfDay(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return r.Timestamp.In(loc).Format(time.TimeOnly)
}

// Snapshot mirrors the server-authoritative counter. It is replaced wholesale,
// never incremented locally. Set is false until the first join reply or broadcast.
type Snapshot struct {
	Value int64
	Set   bool
}

// Invalid classifies value against the event ceiling. A ceiling <= 0 means none.
func Invalid(value, eventMax int64) bool {
	return value < 0 || (eventMax > 0 && value >= eventMax)
}

// Identity is the immutable page-scoped configuration of the viewer.
type Identity struct {
	EventMax    int64
	OwnUsername string
	Location    *time.Location
}

// Invalid classifies value against the identity's ceiling.
func (id Identity) Invalid(value int64) bool {
	return Invalid(value, id.EventMax)
}
