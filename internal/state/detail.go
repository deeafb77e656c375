package state

import (
	"context"
	"sync"

	"github.com/five82/ramyun/internal/catalog"
)

// Detail holds the item shown in the detail view. It opens with the snapshot
// the user selected and is then refreshed from the detail endpoint.
type Detail struct {
	mu   sync.RWMutex
	item catalog.Item
	open bool
	gen  uint64
}

// Show opens the view on item and returns a generation for the refresh that
// follows.
func (d *Detail) Show(item catalog.Item) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	d.item = item
	d.open = true
	return d.gen
}

// Refresh merges freshly fetched display fields into the shown item. The
// liked flag is kept from what is shown. It reports false when the view has
// been closed or reopened on something else since gen was issued.
func (d *Detail) Refresh(gen uint64, fresh catalog.Item) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open || gen != d.gen || fresh.ID != d.item.ID {
		return false
	}
	d.item = d.item.MergeDisplay(fresh)
	return true
}

// Close hides the view.
func (d *Detail) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	d.gen++
}

// Current returns the shown item and whether the view is open.
func (d *Detail) Current() (catalog.Item, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.item, d.open
}

// PatchLiked updates the shown item when it is itemID.
func (d *Detail) PatchLiked(_ context.Context, itemID int64, liked bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.open && d.item.ID == itemID {
		d.item.Liked = liked
	}
	return nil
}
