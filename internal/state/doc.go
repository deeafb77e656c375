// Package state provides thread-safe holders for what the UI displays.
//
// # Overview
//
// Store holds the current page of search results; Detail holds the item in the
// detail view. Both are written from tea.Cmd goroutines and the background
// refresher and read by the Bubble Tea update loop, and both implement the
// favorite package's Surface so a confirmed toggle can patch them in place.
//
// # Generations
//
// Search requests can overlap: the user pages quickly, or the refresher fires
// while a filter change is in flight. Every request first calls Begin, which
// returns a generation number, and hands that number back to Apply with the
// result:
//
//	gen := store.Begin(st.Key())
//	page, err := client.Search(ctx, cred, st.Key())
//	store.Apply(gen, page, err)
//
// Apply accepts a response only when it belongs to the newest issued address
// and no newer request for that address is outstanding. ApplyCurrent takes the
// wanted address from the caller instead, normally the query controller's
// current one, so a refresh that read the old query before the user paged is
// dropped even though it was issued last. A dropped response never replaces
// fresher results and is counted in ramyun_fetch_discarded_total. A cancelled
// request calls Abandon so Loading does not stick.
//
// Detail uses the same scheme for its refresh from the detail endpoint, keyed
// by Show and invalidated by Close.
//
// # Update Semantics
//
//	// Success: replace the page
//	store.Apply(gen, page, nil)
//	→ snapshot.Address = requested address
//	→ snapshot.Page = page
//	→ snapshot.LastError = nil
//
//	// Error: keep the old page, record the error
//	store.Apply(gen, catalog.Page{}, err)
//	→ snapshot.Page = <unchanged>
//	→ snapshot.LastError = err
//	→ snapshot.ConsecutiveFailures++
//
// The UI always has the most recent successful results to show alongside a
// notice of the failure.
//
// # Defensive Copying
//
// Snapshot clones the item slice and wraps the error, so the UI can keep a
// snapshot across frames without racing later writes.
//
// The zero Store and zero Detail are ready to use.
package state
