package api

import (
	"net/http"
	"time"

	"github.com/okian/janus/internal/domain/history"
	"github.com/okian/janus/internal/domain/reconcile"
)

// StateProvider exposes the reconciled view state.
type StateProvider interface {
	State() reconcile.State
}

// StateHandler handles state requests.
type StateHandler struct {
	provider StateProvider
	location *time.Location
}

// NewStateHandler creates a new state handler. Row times are rendered in loc.
func NewStateHandler(provider StateProvider, loc *time.Location) *StateHandler {
	if loc == nil {
		loc = time.Local
	}
	return &StateHandler{provider: provider, location: loc}
}

// HandleGetState handles GET /state requests.
func (h *StateHandler) HandleGetState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.render(h.provider.State()))
}

type stateResponse struct {
	Count   *int64        `json:"count"`
	Invalid bool          `json:"invalid"`
	Records []recordEntry `json:"records"`
}

type recordEntry struct {
	Value     int64     `json:"value"`
	User      string    `json:"user"`
	Time      string    `json:"time"`
	Timestamp time.Time `json:"timestamp"`
	Change    int64     `json:"change"`
	Own       bool      `json:"own"`
	Positive  bool      `json:"positive"`
	New       bool      `json:"new"`
}

func (h *StateHandler) render(s reconcile.State) stateResponse {
	resp := stateResponse{
		Invalid: s.Invalid,
		Records: make([]recordEntry, 0, len(s.Rows)),
	}
	if s.Snapshot.Set {
		v := s.Snapshot.Value
		resp.Count = &v
	}
	for _, row := range s.Rows {
		value := row.Elements[0]
		resp.Records = append(resp.Records, recordEntry{
			Value:     row.Record.Value,
			User:      row.Record.User,
			Time:      row.Elements[2].Text,
			Timestamp: row.Record.Timestamp.In(h.location),
			Change:    row.Record.Change,
			Own:       row.Own(),
			Positive:  value.Has(history.ClassPositive),
			New:       value.Has(history.ClassNew),
		})
	}
	return resp
}
