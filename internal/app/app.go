package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/ramyun/internal/catalog"
	"github.com/five82/ramyun/internal/config"
	"github.com/five82/ramyun/internal/debugsrv"
	"github.com/five82/ramyun/internal/favorite"
	"github.com/five82/ramyun/internal/fetch"
	"github.com/five82/ramyun/internal/logging"
	"github.com/five82/ramyun/internal/prefs"
	"github.com/five82/ramyun/internal/query"
	"github.com/five82/ramyun/internal/recent"
	"github.com/five82/ramyun/internal/state"
	"github.com/five82/ramyun/internal/ui"
	"github.com/five82/ramyun/internal/userstore"
)

// Options configure the ramyun application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/ramyun/prefs.toml
	// Address is the search to open with. Empty resumes the address saved
	// when the previous session exited.
	Address string
}

// Run boots the ramyun TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := logging.New(cfg.LogDir, cfg.Debug)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closeLog()

	userPrefs := prefs.Load(opts.PrefsPath)

	store, err := userstore.Open(ctx, userstore.Options{
		Backend:  cfg.Store,
		DataDir:  cfg.DataDir,
		RedisURL: cfg.RedisURL,
	})
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warnw("close store failed", "error", err)
		}
	}()

	client, err := catalog.NewClient(cfg.APIURL, cfg.RequestTimeout())
	if err != nil {
		return fmt.Errorf("init catalog client: %w", err)
	}

	cred := cfg.Credential()
	address := opts.Address
	if strings.TrimSpace(address) == "" {
		address = userPrefs.LastAddress
	}
	ctrl := query.NewController(address)

	results := &state.Store{}
	detail := &state.Detail{}
	fetcher := fetch.New(client, results, fetch.WithController(ctrl))
	recents := recent.New(store)
	pending := make(chan struct{}, 1)
	reconciler := favorite.New(client,
		favorite.WithSurfaces(
			results,
			detail,
			recent.Surface{Cache: recents, UserID: cred.UserID},
		),
		favorite.WithPendingHook(func(int64, bool) { signal(pending) }),
	)

	logger.Infow("starting",
		"api", cfg.APIURL,
		"store", cfg.Store,
		"signed_in", cred.SignedIn(),
		"address", ctrl.Current().Address,
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return runRefresher(gctx, ctrl, fetcher, results, cred, cfg.RefreshInterval())
	})

	var changes chan struct{}
	if w, ok := store.(userstore.Watcher); ok && cred.SignedIn() {
		changes = make(chan struct{}, 1)
		g.Go(func() error {
			watchStore(gctx, w, changes)
			return nil
		})
	}

	if cfg.MetricsAddr != "" {
		router := debugsrv.NewRouter(debugsrv.Sources{Store: results, Controller: ctrl})
		g.Go(func() error {
			if err := debugsrv.Serve(gctx, cfg.MetricsAddr, router); err != nil {
				return fmt.Errorf("debug server: %w", err)
			}
			return nil
		})
	}

	// Populate the first page before the UI draws.
	refresh(gctx, ctrl, fetcher, cred)

	g.Go(func() error {
		defer cancel()
		return ui.Run(ui.Options{
			Context:    gctx,
			Controller: ctrl,
			Store:      results,
			Detail:     detail,
			Fetcher:    fetcher,
			Items:      client,
			Recent:     recents,
			Favorites:  reconciler,
			Credential: cred,
			Changes:    changes,
			Pending:    pending,
			ThemeName:  userPrefs.Theme,
			PrefsPath:  opts.PrefsPath,
		})
	})

	return g.Wait()
}

// watchStore forwards store change notifications to changes without ever
// blocking the watcher. Watching is optional; a failure is only logged.
func watchStore(ctx context.Context, w userstore.Watcher, changes chan<- struct{}) {
	err := w.Watch(ctx, func() { signal(changes) })
	if err != nil {
		zap.S().Warnw("store watch stopped", "error", err)
	}
}

// signal wakes the reader of ch unless a wakeup is already queued.
func signal(ch chan<- struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
