// Package cache stores rendered diagram artifacts keyed by content hash.
//
// Rendering through Graphviz is the slowest step of a run, and the same
// DOT source always produces the same bytes, so artifacts are cached under
// [ArtifactKey] (a hash of the DOT source and the output format).
//
// Three backends are provided:
//   - [FileCache]: one JSON file per entry below a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: stores nothing (--no-cache)
//
// [Open] selects a backend from a URL. Wrap any backend with [Observed] to
// report hits, misses and writes to the registered observability hooks.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/archdiagram/pkg/errors"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Open returns the cache described by url:
//
//	""              file cache in dir
//	"none"          null cache
//	"redis://..."   Redis (go-redis URL syntax)
//	"rediss://..."  Redis over TLS
func Open(url, dir string) (Cache, error) {
	switch {
	case url == "":
		fc, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case url == "none":
		return NewNullCache(), nil
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		rc, err := NewRedisCacheFromURL(url)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "cache URL")
		}
		return rc, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported cache URL %q (use redis://, rediss:// or none)", url)
	}
}
