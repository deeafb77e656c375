package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/five82/ramyun/internal/catalog"
	"github.com/five82/ramyun/internal/fetch"
	"github.com/five82/ramyun/internal/query"
	"github.com/five82/ramyun/internal/session"
	"github.com/five82/ramyun/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 30 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 30 * time.Second},
		{"negative failures", -1, 30 * time.Second},
		{"one failure", 1, time.Minute},
		{"two failures", 2, 2 * time.Minute},
		{"three failures", 3, 4 * time.Minute},
		{"four failures capped", 4, 5 * time.Minute}, // Would be 8m, capped to 5m
		{"many failures capped", 10, 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	// Verify that backoff never exceeds maxBackoff regardless of input
	baseInterval := 30 * time.Second
	for failures := 0; failures <= 64; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

func TestCalculateBackoff_LongIntervalUnchanged(t *testing.T) {
	if got := calculateBackoff(3, time.Hour); got != time.Hour {
		t.Fatalf("calculateBackoff(3, 1h) = %v, want 1h", got)
	}
}

type countingSearcher struct {
	mu      sync.Mutex
	queries []string
	err     error
}

func (s *countingSearcher) Search(_ context.Context, _ session.Credential, rawQuery string) (catalog.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, rawQuery)
	if s.err != nil {
		return catalog.Page{}, s.err
	}
	return catalog.Page{Items: []catalog.Item{{ID: 1}}, TotalPages: 1}, nil
}

func (s *countingSearcher) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

func TestRunRefresher_FetchesCurrentAddress(t *testing.T) {
	searcher := &countingSearcher{}
	store := &state.Store{}
	ctrl := query.NewController("brand=2")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runRefresher(ctx, ctrl, fetch.New(searcher, store), store, session.Credential{}, 10*time.Millisecond)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for searcher.count() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("runRefresher returned %v", err)
	}

	if searcher.count() < 2 {
		t.Fatalf("searches = %d, want at least 2", searcher.count())
	}
	snap := store.Snapshot()
	if snap.Address != ctrl.Current().Address || !snap.HasPage {
		t.Fatalf("snapshot address = %q, want %q", snap.Address, ctrl.Current().Address)
	}
}

func TestRunRefresher_DisabledReturnsImmediately(t *testing.T) {
	searcher := &countingSearcher{}
	store := &state.Store{}
	err := runRefresher(context.Background(), query.NewController(""), fetch.New(searcher, store), store, session.Credential{}, 0)
	if err != nil {
		t.Fatalf("runRefresher returned %v", err)
	}
	if searcher.count() != 0 {
		t.Fatalf("searches = %d, want 0", searcher.count())
	}
}

func TestRefresh_RecordsFailure(t *testing.T) {
	searcher := &countingSearcher{err: errors.New("boom")}
	store := &state.Store{}
	refresh(context.Background(), query.NewController(""), fetch.New(searcher, store), session.Credential{})

	snap := store.Snapshot()
	if snap.ConsecutiveFailures != 1 || snap.LastError == nil {
		t.Fatalf("snapshot = %+v, want one recorded failure", snap)
	}
}

type fakeWatcher struct {
	fires int
}

func (w fakeWatcher) Watch(_ context.Context, onChange func()) error {
	for i := 0; i < w.fires; i++ {
		onChange()
	}
	return nil
}

func TestWatchStore_CoalescesNotifications(t *testing.T) {
	changes := make(chan struct{}, 1)
	watchStore(context.Background(), fakeWatcher{fires: 3}, changes)

	if len(changes) != 1 {
		t.Fatalf("pending notifications = %d, want 1", len(changes))
	}
}
