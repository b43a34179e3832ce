package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/janus/internal/domain/intent"
)

// IntentSubmitter sends +1/-1 intents to the server.
type IntentSubmitter interface {
	Submit(ctx context.Context, delta int64) error
}

// IntentsHandler handles intent requests.
type IntentsHandler struct {
	submitter IntentSubmitter
}

// NewIntentsHandler creates a new intents handler.
func NewIntentsHandler(submitter IntentSubmitter) *IntentsHandler {
	return &IntentsHandler{submitter: submitter}
}

type intentRequest struct {
	Delta *int64 `json:"delta"`
}

type ackResponse struct {
	Status string `json:"status"`
	Delta  int64  `json:"delta"`
}

// HandlePostIntent handles POST /intents requests. The response only confirms
// the intent was sent; the count changes when the server broadcasts.
func (h *IntentsHandler) HandlePostIntent(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_intent"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Delta == nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, errors.New("missing delta")))
		return
	}

	err := h.submitter.Submit(r.Context(), *req.Delta)
	switch {
	case errors.Is(err, intent.ErrIllegalIntent):
		writeError(w, http.StatusBadRequest, "illegal_intent", wrapKind(op, ErrBadRequest, err))
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, "not_sent", wrapKind(op, ErrNotSent, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "sent", Delta: *req.Delta})
}
