// Package recent keeps each signed-in user's recently viewed items: a
// most-recently-used list of at most Capacity snapshots, deduplicated by id
// and persisted through a userstore.Store.
//
// Snapshots are kept as they were when viewed and are never refreshed from
// the catalog; only the liked flag is patched in place after a confirmed
// favorite toggle.
//
// Anonymous sessions (empty user id) never read or write the cache.
//
// Persistence is load, modify, store without a lock across processes. Two
// writers for the same user can race and one update may be lost.
package recent

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/five82/ramyun/internal/catalog"
	"github.com/five82/ramyun/internal/metrics"
	"github.com/five82/ramyun/internal/userstore"
)

// Capacity is the maximum number of retained entries.
const Capacity = 12

// Key returns the store key for a user's list.
func Key(userID string) string {
	return "viewedItems:" + userID
}

// Cache is the per-user recently viewed list.
type Cache struct {
	store    userstore.Store
	capacity int
}

// New returns a Cache backed by store.
func New(store userstore.Store) *Cache {
	return &Cache{store: store, capacity: Capacity}
}

// RecordView moves item to the head of the user's list, inserting it if
// absent and dropping the oldest entry past capacity.
func (c *Cache) RecordView(ctx context.Context, userID string, item catalog.Item) error {
	if userID == "" {
		return nil
	}
	items, err := c.load(ctx, userID)
	if err != nil {
		return err
	}
	next := make([]catalog.Item, 0, len(items)+1)
	next = append(next, item)
	for _, it := range items {
		if it.ID != item.ID {
			next = append(next, it)
		}
	}
	if len(next) > c.capacity {
		next = next[:c.capacity]
	}
	if err := c.save(ctx, userID, next); err != nil {
		return err
	}
	metrics.RecentViewsTotal.Inc()
	return nil
}

// List returns the user's full list, most recent first.
func (c *Cache) List(ctx context.Context, userID string) ([]catalog.Item, error) {
	if userID == "" {
		return nil, nil
	}
	return c.load(ctx, userID)
}

// Page returns one page of the user's list and the total page count, which is
// at least one. page is one-based; pages past the end are empty.
func (c *Cache) Page(ctx context.Context, userID string, page, pageSize int) ([]catalog.Item, int, error) {
	if pageSize <= 0 {
		pageSize = Capacity
	}
	items, err := c.List(ctx, userID)
	if err != nil {
		return nil, 1, err
	}
	total := (len(items) + pageSize - 1) / pageSize
	if total < 1 {
		total = 1
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil, total, nil
	}
	end := min(start+pageSize, len(items))
	return items[start:end], total, nil
}

// PatchLiked overwrites the liked flag of itemID if it is in the user's list.
// It reports whether an entry was changed.
func (c *Cache) PatchLiked(ctx context.Context, userID string, itemID int64, liked bool) (bool, error) {
	if userID == "" {
		return false, nil
	}
	items, err := c.load(ctx, userID)
	if err != nil {
		return false, err
	}
	for i := range items {
		if items[i].ID != itemID {
			continue
		}
		if items[i].Liked == liked {
			return false, nil
		}
		items[i].Liked = liked
		if err := c.save(ctx, userID, items); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// load reads the list. A value that does not decode is treated as empty so a
// corrupt entry never blocks browsing; the next RecordView overwrites it.
func (c *Cache) load(ctx context.Context, userID string) ([]catalog.Item, error) {
	raw, err := c.store.Get(ctx, Key(userID))
	if err != nil {
		return nil, fmt.Errorf("load recent: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var items []catalog.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		zap.S().Warnw("discarding unreadable recent list", "user", userID, "error", err)
		return nil, nil
	}
	return normalize(items, c.capacity), nil
}

func (c *Cache) save(ctx context.Context, userID string, items []catalog.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode recent: %w", err)
	}
	if err := c.store.Put(ctx, Key(userID), raw); err != nil {
		return fmt.Errorf("save recent: %w", err)
	}
	return nil
}

// normalize enforces uniqueness and capacity on data written by another
// client, keeping the first occurrence of each id.
func normalize(items []catalog.Item, capacity int) []catalog.Item {
	seen := make(map[int64]struct{}, len(items))
	out := items[:0]
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
		if len(out) == capacity {
			break
		}
	}
	return out
}
