// Package fetch runs catalog searches for a query state and writes the
// results into a state.Store.
//
// Concurrent requests for the same user and query share one HTTP call through
// singleflight. Every request still takes its own generation from the store,
// so whichever request was issued last for the wanted query decides what is
// displayed. With a controller attached, the wanted query is the one the
// controller holds when the response arrives; a refresh started just before
// the user paged away can therefore never overwrite the new page.
package fetch

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/five82/ramyun/internal/catalog"
	"github.com/five82/ramyun/internal/metrics"
	"github.com/five82/ramyun/internal/query"
	"github.com/five82/ramyun/internal/session"
	"github.com/five82/ramyun/internal/state"
)

// Fetcher searches the catalog and applies results to a store.
type Fetcher struct {
	search catalog.Searcher
	store  *state.Store
	ctrl   *query.Controller
	group  singleflight.Group
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithController drops results for any query other than ctrl's current one.
func WithController(ctrl *query.Controller) Option {
	return func(f *Fetcher) {
		f.ctrl = ctrl
	}
}

// New returns a Fetcher writing into store.
func New(search catalog.Searcher, store *state.Store, opts ...Option) *Fetcher {
	f := &Fetcher{search: search, store: store}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch requests the page for st and applies it. applied is false when a
// newer request was issued before this one finished or the controller has
// moved to another query. A cancelled ctx leaves the displayed page untouched,
// releases the generation and returns the context error.
func (f *Fetcher) Fetch(ctx context.Context, cred session.Credential, st query.State) (applied bool, err error) {
	key := st.Key()
	gen := f.store.Begin(key)

	v, err, shared := f.group.Do(cred.UserID+"|"+key, func() (any, error) {
		return f.search.Search(ctx, cred, key)
	})
	if errors.Is(err, context.Canceled) {
		f.store.Abandon(gen)
		metrics.FetchTotal.WithLabelValues("canceled").Inc()
		return false, err
	}
	page, _ := v.(catalog.Page)

	var current string
	if f.ctrl != nil {
		current = f.ctrl.Current().Address
	}
	applied = f.store.ApplyCurrent(gen, current, page, err)
	switch {
	case err != nil:
		metrics.FetchTotal.WithLabelValues("error").Inc()
		zap.S().Warnw("search failed", "address", key, "applied", applied, "error", err)
	default:
		metrics.FetchTotal.WithLabelValues("ok").Inc()
		zap.S().Debugw("search done", "address", key, "items", len(page.Items), "shared", shared, "applied", applied)
	}
	return applied, err
}
