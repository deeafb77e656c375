// Package app is the composition root for ramyun.
//
// # Startup
//
// Run builds everything in order and fails fast only on problems that make
// the session unusable:
//
//  1. config.Load reads ~/.config/ramyun/config.toml and validates it
//  2. logging.New sends logs to a rotating file under log_dir
//  3. userstore.Open opens the per-user store (file, sqlite, redis or memory)
//  4. catalog.NewClient prepares the HTTP client for the catalog API
//  5. the query controller starts at Options.Address, or at the address saved
//     in prefs when the last session exited
//  6. the results store, detail holder, fetcher, recent cache and favorite
//     reconciler are wired together
//  7. the first page is fetched, then ui.Run takes over the terminal
//
// # Background Work
//
// An errgroup runs the pieces that live as long as the UI:
//
//   - runRefresher re-fetches the current search every refresh_seconds. After
//     failures the delay doubles, capped at five minutes, so a dead API is not
//     hammered. User actions always fetch immediately.
//   - watchStore forwards change notifications from stores that support them
//     (the file backend, through fsnotify) so the recent list follows edits
//     made by another ramyun process.
//   - debugsrv.Serve exposes /metrics, /healthz and /state when metrics_addr
//     is set.
//
// When the UI exits the group's context is cancelled and Run returns once
// every goroutine has stopped.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load / logging.New / userstore.Open
//	       ├─────> catalog.NewClient
//	       ├─────> query.NewController(address)
//	       ├─────> runRefresher()  ──> fetch.Fetcher ──> state.Store
//	       ├─────> watchStore()    ──> ui (recent reload)
//	       ├─────> debugsrv.Serve()
//	       └─────> ui.Run()        (blocks)
//
// # Errors
//
// Returned from Run: invalid config, unusable log directory, a store that
// cannot be opened (for example an unreachable Redis), a bad API URL, and a
// debug server that cannot listen. Everything after startup is recoverable
// and only logged or shown in the status bar.
package app
