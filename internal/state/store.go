package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/five82/ramyun/internal/catalog"
	"github.com/five82/ramyun/internal/metrics"
)

// Snapshot represents the latest search results available to the UI.
type Snapshot struct {
	// Address is the query the displayed page belongs to.
	Address string
	Page    catalog.Page
	HasPage bool
	// Requested is the query of the newest issued request; it differs from
	// Address while that request is outstanding.
	Requested           string
	Loading             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed searches
}

// IsOffline returns true when the API has been unreachable for multiple
// requests in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store holds the displayed search results. Each request takes a generation
// from Begin. A result is shown only when it belongs to the address the UI
// currently wants and no newer request for that address is outstanding, so a
// slow response for an old query never replaces results for a newer one.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	issued   uint64
	applied  uint64
	inflight map[uint64]string
}

// Begin records that a request for address is about to be sent and returns
// its generation.
func (s *Store) Begin(address string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight == nil {
		s.inflight = make(map[uint64]string)
	}
	s.issued++
	s.inflight[s.issued] = address
	s.snapshot.Requested = address
	s.snapshot.Loading = true
	return s.issued
}

// Apply stores the result of generation gen when its address is that of the
// newest issued request. It reports false, changing nothing but the loading
// state, when the result is stale. When err is non-nil the previous page is
// kept and the error is recorded for visibility.
func (s *Store) Apply(gen uint64, page catalog.Page, err error) bool {
	return s.ApplyCurrent(gen, "", page, err)
}

// ApplyCurrent is Apply with the wanted address given by the caller, usually
// the address the query controller holds right now. A result for any other
// address is dropped even if it was issued last. An empty current falls back
// to the newest issued address.
func (s *Store) ApplyCurrent(gen uint64, current string, page catalog.Page, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	address, ok := s.inflight[gen]
	if !ok {
		metrics.FetchDiscardedTotal.Inc()
		return false
	}
	delete(s.inflight, gen)
	if current == "" {
		current = s.snapshot.Requested
	}

	if address != current || gen < s.applied || s.newerInflight(gen, address) {
		metrics.FetchDiscardedTotal.Inc()
		s.settle()
		return false
	}

	s.applied = gen
	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
	} else {
		s.snapshot.Address = address
		s.snapshot.Page = page.Clone()
		s.snapshot.HasPage = true
		s.snapshot.LastError = nil
		s.snapshot.ConsecutiveFailures = 0
	}
	s.settle()
	return true
}

// Abandon releases generation gen without a result, as when its request was
// cancelled. Nothing displayed changes.
func (s *Store) Abandon(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inflight[gen]; !ok {
		return
	}
	delete(s.inflight, gen)
	s.settle()
}

func (s *Store) newerInflight(gen uint64, address string) bool {
	for g, a := range s.inflight {
		if g > gen && a == address {
			return true
		}
	}
	return false
}

// settle clears the loading state once no request is outstanding. When the
// newest request was dropped or abandoned, Requested falls back to the
// displayed address.
func (s *Store) settle() {
	if len(s.inflight) > 0 {
		return
	}
	s.snapshot.Loading = false
	if s.applied != s.issued {
		s.snapshot.Requested = s.snapshot.Address
	}
}

// PatchLiked sets the liked flag of itemID in the displayed page.
func (s *Store) PatchLiked(_ context.Context, itemID int64, liked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.snapshot.Page.Items {
		if s.snapshot.Page.Items[i].ID == itemID {
			s.snapshot.Page.Items[i].Liked = liked
		}
	}
	return nil
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Page = s.snapshot.Page.Clone()
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
