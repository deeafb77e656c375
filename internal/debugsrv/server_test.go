package debugsrv

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/five82/ramyun/internal/catalog"
	"github.com/five82/ramyun/internal/metrics"
	"github.com/five82/ramyun/internal/query"
	"github.com/five82/ramyun/internal/state"
)

func TestRouter_Healthz(t *testing.T) {
	srv := httptest.NewServer(NewRouter(Sources{}))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(body)) != "ok" {
		t.Fatalf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestRouter_State(t *testing.T) {
	store := &state.Store{}
	ctrl := query.NewController("page=2&brand=1")
	addr := ctrl.Current().Address
	store.Apply(store.Begin(addr), catalog.Page{
		Items:      []catalog.Item{{ID: 1}, {ID: 2}},
		PageNumber: 2, TotalPages: 4, TotalElements: 40,
	}, nil)
	store.Apply(store.Begin(addr), catalog.Page{}, errors.New("gateway timeout"))

	srv := httptest.NewServer(NewRouter(Sources{Store: store, Controller: ctrl}))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/state")
	if err != nil {
		t.Fatalf("GET /state: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}
	var got stateResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Address != addr || got.Displayed != addr || got.Items != 2 || got.TotalPages != 4 {
		t.Fatalf("state = %+v", got)
	}
	if got.LastError != "gateway timeout" || got.ConsecutiveFailures != 1 || got.Offline {
		t.Fatalf("error fields = %+v", got)
	}
	if got.History != 1 {
		t.Fatalf("History = %d, want 1", got.History)
	}
}

func TestRouter_MetricsExposesCollectors(t *testing.T) {
	metrics.RecentViewsTotal.Inc()
	srv := httptest.NewServer(NewRouter(Sources{}))
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "ramyun_recent_views_total") {
		t.Fatalf("metrics body missing ramyun_recent_views_total")
	}
}
