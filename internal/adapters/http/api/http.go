// Package api is the local control surface of the client: metrics, the
// reconciled view state and the +1/-1 buttons.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/cors"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	StateProvider
	IntentSubmitter
}

// Server wires HTTP routes for the control API.
type Server struct {
	healthHandler  *HealthHandler
	stateHandler   *StateHandler
	intentsHandler *IntentsHandler
	allowedOrigins []string
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, loc *time.Location, opts ...Option) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		stateHandler:   NewStateHandler(deps, loc),
		intentsHandler: NewIntentsHandler(deps),
		allowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/state", MetricsMiddleware(s.stateHandler.HandleGetState, "state"))
	mux.HandleFunc("/intents", MetricsMiddleware(s.intentsHandler.HandlePostIntent, "intents"))
}

// Handler returns the routes wrapped with CORS, so a page on another origin
// can act as the buttons.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedOrigins: s.allowedOrigins,
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
