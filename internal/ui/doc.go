// Package ui implements ramyun's terminal interface with Bubble Tea.
//
// # Views
//
//   - Search: one page of catalog results for the current address, with an
//     optional filter panel listing every filter option.
//   - Recent: the signed-in user's recently viewed items, paged locally.
//   - Detail: one item. It opens with the snapshot the user picked and is
//     refreshed from the detail endpoint once that answers.
//
// # Data Flow
//
// Query changes go through query.Controller, which returns the new state and
// address together. The model keeps that Change for display and hands the
// state to fetch.Fetcher in a tea.Cmd. Results land in state.Store and are
// pulled into the model as snapshots, either when a search finishes or on the
// periodic tick. A search that was superseded is never applied by the store,
// so the model only ever sees the newest results.
//
// Favorite toggles run through favorite.Reconciler. On success it patches the
// store, the detail holder and the recent list, and the model re-reads all
// three; the status bar shows a one-shot notice either way.
//
// # Keys
//
// Bindings live in keys.go and the help overlay (?) is generated from them.
// Key handling is split per view: handleSearchKey, handleRecentKey and
// handleDetailKey. While the status bar input is open (/ for the name query,
// : for a raw address) it receives every key.
//
// # Preferences
//
// The theme (T cycles) and the address shown at exit are written to the
// prefs file so the next session resumes where this one stopped.
package ui
