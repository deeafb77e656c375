package userstore

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Store is a small key/value store for per-user client data. Get returns a
// nil slice and a nil error when the key has never been written.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Watcher is implemented by backends that can report writes made by other
// processes.
type Watcher interface {
	Watch(ctx context.Context, onChange func()) error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend  string
	DataDir  string
	RedisURL string
}

// Open builds the configured backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendFile:
		return NewFile(filepath.Join(opts.DataDir, "store.json"))
	case BackendSQLite:
		return NewSQLite(ctx, filepath.Join(opts.DataDir, "store.db"))
	case BackendRedis:
		return NewRedis(ctx, opts.RedisURL)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
