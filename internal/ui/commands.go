package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/ramyun/internal/catalog"
	"github.com/five82/ramyun/internal/favorite"
	"github.com/five82/ramyun/internal/fetch"
	"github.com/five82/ramyun/internal/query"
	"github.com/five82/ramyun/internal/recent"
	"github.com/five82/ramyun/internal/session"
	"github.com/five82/ramyun/internal/state"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// searchDoneMsg reports a finished catalog search. applied is false when a
// newer search superseded it.
type searchDoneMsg struct {
	address string
	applied bool
	err     error
}

// itemMsg carries the detail endpoint's answer for the detail generation gen.
type itemMsg struct {
	gen  uint64
	item catalog.Item
	err  error
}

type favoriteMsg struct {
	outcome favorite.Outcome
	err     error
}

type recentMsg struct {
	page       int
	items      []catalog.Item
	totalPages int
	err        error
}

type viewRecordedMsg struct {
	itemID int64
	err    error
}

// storeChangedMsg signals that the per-user store was written by someone
// else.
type storeChangedMsg struct{}

// pendingChangedMsg signals that an item started or finished a favorite
// toggle, so the pending marks need a redraw.
type pendingChangedMsg struct{}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func searchCmd(ctx context.Context, f *fetch.Fetcher, cred session.Credential, st query.State) tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		applied, err := f.Fetch(ctx, cred, st)
		return searchDoneMsg{address: st.Key(), applied: applied, err: err}
	}
}

func fetchItemCmd(ctx context.Context, items ItemSource, cred session.Credential, gen uint64, itemID int64) tea.Cmd {
	if items == nil {
		return nil
	}
	return func() tea.Msg {
		item, err := items.FetchItem(ctx, cred, itemID)
		return itemMsg{gen: gen, item: item, err: err}
	}
}

func toggleFavoriteCmd(ctx context.Context, r *favorite.Reconciler, cred session.Credential, item catalog.Item) tea.Cmd {
	if r == nil {
		return nil
	}
	return func() tea.Msg {
		out, err := r.Toggle(ctx, cred, item.ID, item.Liked)
		return favoriteMsg{outcome: out, err: err}
	}
}

func loadRecentCmd(ctx context.Context, c *recent.Cache, userID string, page int) tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		items, total, err := c.Page(ctx, userID, page, recent.Capacity)
		return recentMsg{page: page, items: items, totalPages: total, err: err}
	}
}

func recordViewCmd(ctx context.Context, c *recent.Cache, userID string, item catalog.Item) tea.Cmd {
	if c == nil || userID == "" {
		return nil
	}
	return func() tea.Msg {
		err := c.RecordView(ctx, userID, item)
		if err != nil {
			zap.S().Warnw("record view failed", "item", item.ID, "error", err)
		}
		return viewRecordedMsg{itemID: item.ID, err: err}
	}
}

// waitForChangeCmd blocks until the next store change notification.
func waitForChangeCmd(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

// waitForPendingCmd blocks until a favorite toggle changes an item's pending
// state.
func waitForPendingCmd(pending <-chan struct{}) tea.Cmd {
	if pending == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-pending; !ok {
			return nil
		}
		return pendingChangedMsg{}
	}
}
