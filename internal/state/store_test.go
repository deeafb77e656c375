package state

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/ramyun/internal/catalog"
)

func page(ids ...int64) catalog.Page {
	p := catalog.Page{PageNumber: 1, PageSize: 12, TotalPages: 1, TotalElements: len(ids)}
	for _, id := range ids {
		p.Items = append(p.Items, catalog.Item{ID: id})
	}
	return p
}

func TestStore_ApplyAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	gen := s.Begin("page=1&sort=name&direction=asc")
	if !s.Snapshot().Loading {
		t.Fatal("Loading = false after Begin")
	}
	if !s.Apply(gen, page(1, 2), nil) {
		t.Fatal("Apply of newest generation returned false")
	}

	snap := s.Snapshot()
	if !snap.HasPage || snap.Address != "page=1&sort=name&direction=asc" {
		t.Fatalf("snapshot = %+v, want page for address", snap)
	}
	if len(snap.Page.Items) != 2 || snap.Page.Items[0].ID != 1 {
		t.Fatalf("snapshot items = %#v, want 2 items", snap.Page.Items)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil || snap.Loading {
		t.Fatalf("LastError/Loading = %v/%v, want nil/false", snap.LastError, snap.Loading)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Page.Items[0].ID = 999
	if s.Snapshot().Page.Items[0].ID != 1 {
		t.Fatal("Snapshot should clone items")
	}
}

func TestStore_StaleResponseDiscarded(t *testing.T) {
	var s Store

	genA := s.Begin("a")
	genB := s.Begin("b")

	if !s.Apply(genB, page(20), nil) {
		t.Fatal("Apply(B) returned false")
	}
	if s.Apply(genA, page(10), nil) {
		t.Fatal("Apply(A) after B resolved returned true")
	}
	snap := s.Snapshot()
	if snap.Address != "b" || snap.Page.Items[0].ID != 20 {
		t.Fatalf("snapshot = %+v, want B's results", snap)
	}
}

func TestStore_StaleResponseDiscardedBeforeNewerResolves(t *testing.T) {
	var s Store

	genA := s.Begin("a")
	_ = s.Begin("b")

	if s.Apply(genA, page(10), nil) {
		t.Fatal("Apply(A) after B was issued returned true")
	}
	snap := s.Snapshot()
	if snap.HasPage || !snap.Loading || snap.Requested != "b" {
		t.Fatalf("snapshot = %+v, want B still loading and nothing shown", snap)
	}
}

func TestStore_ApplyCurrentDropsOtherAddress(t *testing.T) {
	var s Store

	genB := s.Begin("b")
	genA := s.Begin("a") // issued last, but the UI has moved on to b

	if !s.ApplyCurrent(genB, "b", page(20), nil) {
		t.Fatal("ApplyCurrent(B) returned false")
	}
	if s.ApplyCurrent(genA, "b", page(10), nil) {
		t.Fatal("ApplyCurrent(A) for a superseded address returned true")
	}
	snap := s.Snapshot()
	if snap.Address != "b" || snap.Page.Items[0].ID != 20 {
		t.Fatalf("snapshot = %+v, want B's results", snap)
	}
	if snap.Loading || snap.Requested != "b" {
		t.Fatalf("Loading/Requested = %v/%q, want false/b", snap.Loading, snap.Requested)
	}
}

func TestStore_OlderSameAddressDropped(t *testing.T) {
	var s Store

	older := s.Begin("a")
	newer := s.Begin("a")
	if !s.Apply(newer, page(2), nil) {
		t.Fatal("Apply(newer) returned false")
	}
	if s.Apply(older, page(1), nil) {
		t.Fatal("Apply(older) after newer applied returned true")
	}
	if id := s.Snapshot().Page.Items[0].ID; id != 2 {
		t.Fatalf("item = %d, want 2", id)
	}
}

func TestStore_AbandonSettlesLoading(t *testing.T) {
	var s Store
	s.Apply(s.Begin("a"), page(1), nil)

	gen := s.Begin("b")
	s.Abandon(gen)

	snap := s.Snapshot()
	if snap.Loading || snap.Requested != "a" || snap.Address != "a" {
		t.Fatalf("snapshot = %+v, want a shown and nothing loading", snap)
	}
	if s.Apply(gen, page(9), nil) {
		t.Fatal("Apply after Abandon returned true")
	}
}

func TestStore_ApplyErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Apply(s.Begin("a"), page(1), nil)
	prev := s.Snapshot()

	origErr := errors.New("boom")
	s.Apply(s.Begin("b"), catalog.Page{}, origErr)

	snap := s.Snapshot()
	if snap.Address != prev.Address || len(snap.Page.Items) != 1 || snap.Page.Items[0].ID != 1 {
		t.Fatalf("results changed on error: got %+v want %+v", snap, prev)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("initial failures/offline = %d/%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Apply(s.Begin("a"), catalog.Page{}, errors.New("fail 1"))
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after 1 failure: %d/%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Apply(s.Begin("a"), catalog.Page{}, errors.New("fail 2"))
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after 2 failures: %d/%v", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Apply(s.Begin("a"), page(1), nil)
	snap = s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success: %d/%v", snap.ConsecutiveFailures, snap.IsOffline())
	}
}

func TestStore_PatchLiked(t *testing.T) {
	var s Store
	s.Apply(s.Begin("a"), page(1, 2), nil)

	_ = s.PatchLiked(context.Background(), 2, true)
	_ = s.PatchLiked(context.Background(), 99, true)

	items := s.Snapshot().Page.Items
	if items[0].Liked || !items[1].Liked {
		t.Fatalf("items = %+v, want only id 2 liked", items)
	}
}

func TestDetail_RefreshKeepsLikedAndDropsStale(t *testing.T) {
	var d Detail

	gen := d.Show(catalog.Item{ID: 5, Name: "snapshot", Liked: true})
	if !d.Refresh(gen, catalog.Item{ID: 5, Name: "fresh"}) {
		t.Fatal("Refresh for current generation returned false")
	}
	item, open := d.Current()
	if !open || item.Name != "fresh" || !item.Liked {
		t.Fatalf("item = %+v open=%v, want fresh name and liked kept", item, open)
	}

	old := gen
	d.Show(catalog.Item{ID: 6, Name: "other"})
	if d.Refresh(old, catalog.Item{ID: 5, Name: "late"}) {
		t.Fatal("Refresh for a superseded item returned true")
	}

	gen = d.Show(catalog.Item{ID: 7})
	d.Close()
	if d.Refresh(gen, catalog.Item{ID: 7, Name: "late"}) {
		t.Fatal("Refresh after Close returned true")
	}
}

func TestDetail_PatchLikedOnlyForShownItem(t *testing.T) {
	var d Detail
	d.Show(catalog.Item{ID: 5})

	_ = d.PatchLiked(context.Background(), 6, true)
	if item, _ := d.Current(); item.Liked {
		t.Fatal("patched a different item")
	}
	_ = d.PatchLiked(context.Background(), 5, true)
	if item, _ := d.Current(); !item.Liked {
		t.Fatal("shown item not patched")
	}
}
