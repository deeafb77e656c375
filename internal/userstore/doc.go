// Package userstore persists small per-user values such as the recently
// viewed list. Backends: a JSON file watched with fsnotify (default), a
// SQLite database, a shared Redis, and an in-memory map.
package userstore
