// File: lixenwraith/gs/config/cache/cache.go

// Package cache provides a small string key/value cache with in-memory,
// file-system and Redis backends selected by a connection string.
//
// Connection strings:
//   - "memory"
//   - "path:/path/to/cache/directory"
//   - "redis://host:port/db_number" (or rediss:// for TLS)
//
// A ttl of zero never expires; a negative ttl expires the entry immediately.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrNoBackend is returned by Open when no backend recognizes the connection
// string.
var ErrNoBackend = errors.New("cache: no backend matches connection string")

// neverExpires stands in for an infinite expiry.
var neverExpires = time.Date(9999, time.January, 1, 0, 0, 0, 0, time.UTC)

// Cache stores string values by key.
type Cache interface {
	// Get returns the value of key and whether it was found and not expired.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Close releases the backend's resources.
	Close() error
}

// Option configures a backend opened by Open.
type Option func(*options)

type options struct {
	logger *zap.Logger
	now    func() time.Time
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock replaces time.Now for expiry checks of the memory and file
// backends.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// backend recognizes its own connection strings. ok is false when conn belongs
// to another backend.
type backend struct {
	name string
	open func(conn string, o *options) (c Cache, ok bool, err error)
}

// backends in the order they are tried.
var backends = []backend{
	{name: "memory", open: openMemory},
	{name: "file", open: openFile},
	{name: "redis", open: openRedis},
}

// Open returns the cache selected by conn.
func Open(conn string, opts ...Option) (Cache, error) {
	o := &options{logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(o)
	}

	for _, b := range backends {
		c, ok, err := b.open(conn, o)
		if !ok {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("cache: open %s backend: %w", b.name, err)
		}
		o.logger.Info("cache initialized", zap.String("backend", b.name))
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNoBackend, conn)
}

// expiry converts a ttl into an absolute expiry time.
func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl == 0 {
		return neverExpires
	}
	return now.Add(ttl)
}
