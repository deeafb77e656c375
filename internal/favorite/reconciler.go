// Package favorite toggles an item's favorite flag against the remote API and
// propagates the confirmed value to every surface showing the item.
//
// The flag is never flipped before the server confirms. Toggles for one item
// run strictly one after another in arrival order; a toggle that had to wait
// starts from the value the previous toggle confirmed, so two quick presses
// produce one add and one remove, never two adds. Different items do not
// wait on each other.
package favorite

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/five82/ramyun/internal/catalog"
	"github.com/five82/ramyun/internal/metrics"
	"github.com/five82/ramyun/internal/session"
)

// Surface is anything that displays items and can update one item's liked
// flag in place. Implementations ignore ids they do not hold.
type Surface interface {
	PatchLiked(ctx context.Context, itemID int64, liked bool) error
}

// Op is the remote operation a toggle performed.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
)

// Outcome describes a finished toggle. Liked is the value now shown
// everywhere: the new value on success, the unchanged one on failure.
type Outcome struct {
	ItemID int64
	Op     Op
	Liked  bool
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithSurfaces registers surfaces to patch after a confirmed toggle.
func WithSurfaces(s ...Surface) Option {
	return func(r *Reconciler) {
		r.surfaces = append(r.surfaces, s...)
	}
}

// WithPendingHook sets a callback fired when an item gains its first queued
// toggle (pending=true) and when its last one finishes (pending=false). Calls
// are never concurrent and arrive in the order the transitions happened.
func WithPendingHook(fn func(itemID int64, pending bool)) Option {
	return func(r *Reconciler) {
		r.onPending = fn
	}
}

// Reconciler serializes favorite toggles per item.
type Reconciler struct {
	remote    catalog.Favorites
	onPending func(itemID int64, pending bool)

	mu       sync.Mutex
	surfaces []Surface
	queues   map[int64]*itemQueue
	events   []pendingEvent // transitions not yet delivered to onPending

	hookMu sync.Mutex // serializes delivery of events
}

type pendingEvent struct {
	itemID  int64
	pending bool
}

// itemQueue exists while an item has a running toggle. waiting holds the
// callers behind it in arrival order.
type itemQueue struct {
	waiting      []chan struct{}
	confirmed    bool
	hasConfirmed bool
}

// New builds a Reconciler calling remote.
func New(remote catalog.Favorites, opts ...Option) *Reconciler {
	r := &Reconciler{
		remote: remote,
		queues: make(map[int64]*itemQueue),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AddSurface registers another surface.
func (r *Reconciler) AddSurface(s Surface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surfaces = append(r.surfaces, s)
}

// Pending reports whether a toggle for itemID is running or queued.
func (r *Reconciler) Pending(itemID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.queues[itemID]
	return ok
}

// Toggle flips itemID's favorite state. currentLiked is the value the caller
// displays; if another toggle for the item is ahead in the queue, the value
// that toggle confirmed is used instead.
//
// Without a token it returns catalog.ErrAuthRequired and makes no call. On a
// remote failure no surface is touched and the error is a
// *catalog.NetworkError unless it was an auth rejection or ctx ended.
func (r *Reconciler) Toggle(ctx context.Context, cred session.Credential, itemID int64, currentLiked bool) (Outcome, error) {
	out := Outcome{ItemID: itemID, Op: opFor(currentLiked), Liked: currentLiked}
	if cred.Anonymous() {
		metrics.FavoriteTogglesTotal.WithLabelValues(string(out.Op), "auth_required").Inc()
		return out, catalog.ErrAuthRequired
	}

	q, err := r.acquire(ctx, itemID)
	if err != nil {
		return out, err
	}
	defer r.release(itemID, q)

	r.mu.Lock()
	liked := currentLiked
	if q.hasConfirmed {
		liked = q.confirmed
	}
	r.mu.Unlock()

	out.Op = opFor(liked)
	out.Liked = liked

	var callErr error
	if liked {
		callErr = r.remote.RemoveFavorite(ctx, cred, itemID)
	} else {
		callErr = r.remote.AddFavorite(ctx, cred, itemID)
	}
	if callErr != nil {
		r.mu.Lock()
		q.hasConfirmed = false
		r.mu.Unlock()
		metrics.FavoriteTogglesTotal.WithLabelValues(string(out.Op), "error").Inc()
		zap.S().Infow("favorite toggle failed", "item", itemID, "op", out.Op, "error", callErr)
		return out, asDisplayError(string(out.Op)+" favorite", callErr)
	}

	next := !liked
	r.mu.Lock()
	q.confirmed = next
	q.hasConfirmed = true
	surfaces := slices.Clone(r.surfaces)
	r.mu.Unlock()

	patchCtx := context.WithoutCancel(ctx)
	for _, s := range surfaces {
		if err := s.PatchLiked(patchCtx, itemID, next); err != nil {
			zap.S().Warnw("surface patch failed", "item", itemID, "liked", next, "error", err)
		}
	}
	metrics.FavoriteTogglesTotal.WithLabelValues(string(out.Op), "ok").Inc()
	out.Liked = next
	return out, nil
}

func opFor(liked bool) Op {
	if liked {
		return OpRemove
	}
	return OpAdd
}

func asDisplayError(op string, err error) error {
	var netErr *catalog.NetworkError
	switch {
	case errors.As(err, &netErr),
		errors.Is(err, catalog.ErrAuthRequired),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return &catalog.NetworkError{Op: op, Err: err}
	}
}

// acquire waits for the item's turn. The first caller for an idle item runs
// immediately and fires the pending hook.
func (r *Reconciler) acquire(ctx context.Context, itemID int64) (*itemQueue, error) {
	r.mu.Lock()
	q, busy := r.queues[itemID]
	if !busy {
		q = &itemQueue{}
		r.queues[itemID] = q
		r.queueEvent(itemID, true)
		r.mu.Unlock()
		r.flushEvents()
		return q, nil
	}
	turn := make(chan struct{})
	q.waiting = append(q.waiting, turn)
	r.mu.Unlock()

	select {
	case <-turn:
		return q, nil
	case <-ctx.Done():
		r.mu.Lock()
		if i := slices.Index(q.waiting, turn); i >= 0 {
			q.waiting = slices.Delete(q.waiting, i, i+1)
			r.mu.Unlock()
			return nil, ctx.Err()
		}
		// The turn was handed over while ctx ended; pass it on.
		r.mu.Unlock()
		r.release(itemID, q)
		return nil, ctx.Err()
	}
}

// release hands the item to the next waiter or retires the queue.
func (r *Reconciler) release(itemID int64, q *itemQueue) {
	r.mu.Lock()
	if len(q.waiting) > 0 {
		next := q.waiting[0]
		q.waiting = q.waiting[1:]
		r.mu.Unlock()
		close(next)
		return
	}
	delete(r.queues, itemID)
	r.queueEvent(itemID, false)
	r.mu.Unlock()
	r.flushEvents()
}

// queueEvent records a pending transition. r.mu must be held, which fixes the
// delivery order to the order of the transitions.
func (r *Reconciler) queueEvent(itemID int64, pending bool) {
	if r.onPending != nil {
		r.events = append(r.events, pendingEvent{itemID: itemID, pending: pending})
	}
}

// flushEvents delivers queued transitions in order. A caller that finds a
// flush running waits for it and then delivers whatever is left.
func (r *Reconciler) flushEvents() {
	if r.onPending == nil {
		return
	}
	r.hookMu.Lock()
	defer r.hookMu.Unlock()
	for {
		r.mu.Lock()
		events := r.events
		r.events = nil
		r.mu.Unlock()
		if len(events) == 0 {
			return
		}
		for _, ev := range events {
			r.onPending(ev.itemID, ev.pending)
		}
	}
}
