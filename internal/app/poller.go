package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/five82/ramyun/internal/fetch"
	"github.com/five82/ramyun/internal/query"
	"github.com/five82/ramyun/internal/session"
	"github.com/five82/ramyun/internal/state"
)

// maxBackoff caps the refresh delay while the API keeps failing.
const maxBackoff = 5 * time.Minute

// runRefresher re-fetches the current search every interval until ctx is
// cancelled. After failed searches the delay doubles up to maxBackoff. A
// non-positive interval disables refreshing.
func runRefresher(ctx context.Context, ctrl *query.Controller, fetcher *fetch.Fetcher, store *state.Store, cred session.Credential, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
		refresh(ctx, ctrl, fetcher, cred)
		timer.Reset(calculateBackoff(store.Snapshot().ConsecutiveFailures, interval))
	}
}

// refresh fetches whatever the controller currently shows.
func refresh(ctx context.Context, ctrl *query.Controller, fetcher *fetch.Fetcher, cred session.Credential) {
	current := ctrl.Current()
	if _, err := fetcher.Fetch(ctx, cred, current.State); err != nil && !errors.Is(err, context.Canceled) {
		zap.S().Debugw("refresh failed", "address", current.Address, "error", err)
	}
}

// calculateBackoff doubles base once per consecutive failure, capped at
// maxBackoff. Intervals already above the cap are left alone.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 || base >= maxBackoff {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
