package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/janus/internal/adapters/http/api"
	"github.com/okian/janus/internal/domain/history"
	"github.com/okian/janus/internal/domain/intent"
	"github.com/okian/janus/internal/domain/model"
	"github.com/okian/janus/internal/domain/reconcile"
)

type mockDeps struct {
	state     reconcile.State
	submitted []int64
	submitErr error
}

func (m *mockDeps) State() reconcile.State { return m.state }

func (m *mockDeps) Submit(_ context.Context, delta int64) error {
	if delta != 1 && delta != -1 {
		return fmt.Errorf("%w: got %d", intent.ErrIllegalIntent, delta)
	}
	if m.submitErr != nil {
		return fmt.Errorf("%w: %w", intent.ErrNotSent, m.submitErr)
	}
	m.submitted = append(m.submitted, delta)
	return nil
}

func sampleState() reconcile.State {
	id := model.Identity{OwnUsername: "ana", Location: time.UTC}
	ts := time.Date(2024, 3, 1, 14, 5, 7, 0, time.UTC)
	return reconcile.State{
		Snapshot: model.Snapshot{Value: 9, Set: true},
		Invalid:  false,
		Rows: []history.Row{
			history.NewRow(model.UpdateRecord{Timestamp: ts, User: "ana", Value: 9, Change: 1}, id),
			history.NewRow(model.UpdateRecord{Timestamp: ts, User: "bo", Value: 8, Change: -1}, id),
		},
	}
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Routes(t *testing.T) {
	Convey("Given a control API server", t, func() {
		deps := &mockDeps{state: sampleState()}
		h := api.NewServer(deps, time.UTC).Handler()

		Convey("When requesting health", func() {
			w := do(h, http.MethodGet, "/healthz", "")

			Convey("Then the metrics exposition is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "janus_client_")
			})
		})

		Convey("When requesting state", func() {
			w := do(h, http.MethodGet, "/state", "")

			Convey("Then the count and records are returned most recent first", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Count   *int64 `json:"count"`
					Invalid bool   `json:"invalid"`
					Records []struct {
						Value    int64  `json:"value"`
						User     string `json:"user"`
						Time     string `json:"time"`
						Own      bool   `json:"own"`
						Positive bool   `json:"positive"`
					} `json:"records"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(*body.Count, ShouldEqual, 9)
				So(body.Invalid, ShouldBeFalse)
				So(len(body.Records), ShouldEqual, 2)
				So(body.Records[0].User, ShouldEqual, "ana")
				So(body.Records[0].Time, ShouldEqual, "14:05:07")
				So(body.Records[0].Own, ShouldBeTrue)
				So(body.Records[0].Positive, ShouldBeTrue)
				So(body.Records[1].Own, ShouldBeFalse)
				So(body.Records[1].Positive, ShouldBeFalse)
			})
		})

		Convey("When the count was never set", func() {
			deps.state = reconcile.State{}
			w := do(h, http.MethodGet, "/state", "")

			Convey("Then count is null", func() {
				So(w.Body.String(), ShouldContainSubstring, `"count":null`)
				So(w.Body.String(), ShouldContainSubstring, `"records":[]`)
			})
		})

		Convey("When posting a legal intent", func() {
			w := do(h, http.MethodPost, "/intents", `{"delta":-1}`)

			Convey("Then it is accepted and forwarded unmodified", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				So(deps.submitted, ShouldResemble, []int64{-1})
			})
		})

		Convey("When posting an illegal intent", func() {
			w := do(h, http.MethodPost, "/intents", `{"delta":5}`)

			Convey("Then it is refused as a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "illegal_intent")
				So(deps.submitted, ShouldBeEmpty)
			})
		})

		Convey("When the body is malformed or missing delta", func() {
			So(do(h, http.MethodPost, "/intents", `{`).Code, ShouldEqual, http.StatusBadRequest)
			So(do(h, http.MethodPost, "/intents", `{}`).Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the intent cannot be sent", func() {
			deps.submitErr = errors.New("broken pipe")
			w := do(h, http.MethodPost, "/intents", `{"delta":1}`)

			Convey("Then a bad gateway is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadGateway)
				So(w.Body.String(), ShouldContainSubstring, "not_sent")
			})
		})

		Convey("When using the wrong method", func() {
			So(do(h, http.MethodPost, "/state", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(h, http.MethodGet, "/intents", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When a cross-origin preflight arrives", func() {
			req := httptest.NewRequest(http.MethodOptions, "/intents", nil)
			req.Header.Set("Origin", "http://page.example")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then CORS headers allow it", func() {
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			})
		})
	})
}

func TestServer_AllowedOrigins(t *testing.T) {
	Convey("Given a server restricted to one origin", t, func() {
		h := api.NewServer(&mockDeps{}, time.UTC, api.WithAllowedOrigins("http://counter.example")).Handler()

		req := httptest.NewRequest(http.MethodGet, "/state", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		Convey("Then other origins get no CORS grant", func() {
			So(w.Header().Get("Access-Control-Allow-Origin"), ShouldBeEmpty)
		})
	})
}
