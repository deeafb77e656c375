// Package debugsrv serves a small local HTTP endpoint for inspecting a
// running session: Prometheus metrics, a health probe, and the current
// search state as JSON. It is off unless metrics_addr is configured.
package debugsrv

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/five82/ramyun/internal/query"
	"github.com/five82/ramyun/internal/state"
)

// Sources are the live objects /state reports on.
type Sources struct {
	Store      *state.Store
	Controller *query.Controller
}

type stateResponse struct {
	Address             string    `json:"address"`
	Displayed           string    `json:"displayed"`
	Requested           string    `json:"requested"`
	Loading             bool      `json:"loading"`
	Items               int       `json:"items"`
	PageNumber          int       `json:"pageNumber"`
	TotalPages          int       `json:"totalPages"`
	TotalElements       int       `json:"totalElements"`
	LastUpdated         time.Time `json:"lastUpdated"`
	LastError           string    `json:"lastError,omitempty"`
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	Offline             bool      `json:"offline"`
	History             int       `json:"history"`
}

// NewRouter registers the debug routes.
func NewRouter(src Sources) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/state", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, buildState(src))
	})
	return r
}

func buildState(src Sources) stateResponse {
	var resp stateResponse
	if src.Controller != nil {
		resp.Address = src.Controller.Current().Address
		resp.History = src.Controller.HistoryLen()
	}
	if src.Store != nil {
		snap := src.Store.Snapshot()
		resp.Displayed = snap.Address
		resp.Requested = snap.Requested
		resp.Loading = snap.Loading
		resp.Items = len(snap.Page.Items)
		resp.PageNumber = snap.Page.PageNumber
		resp.TotalPages = snap.Page.TotalPages
		resp.TotalElements = snap.Page.TotalElements
		resp.LastUpdated = snap.LastUpdated
		resp.ConsecutiveFailures = snap.ConsecutiveFailures
		resp.Offline = snap.IsOffline()
		if snap.LastError != nil {
			resp.LastError = snap.LastError.Error()
		}
	}
	return resp
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Warnw("debug response encode failed", "error", err)
	}
}

// Serve listens on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		zap.S().Infow("debug server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
