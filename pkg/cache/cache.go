// Package cache stores computed hotspot layouts so repeated requests for the
// same dish, ingredients, strategy and seed skip the relaxation loop.
//
// Three backends share the [Cache] interface:
//   - [NullCache]: caching disabled
//   - [FileCache]: JSON files under a local directory, for the CLI
//   - [RedisCache]: shared cache for multi-instance API deployments
//
// Keys are built by a [Keyer] so that every component derives the same key
// from the same request. [ScopedKeyer] prefixes keys per tenant or menu.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value cache with per-entry TTL.
type Cache interface {
	// Get returns the cached value and true on a hit.
	// A miss is (nil, false, nil), never an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TTLHotspots is how long a generated layout stays cached. Layouts are pure
// functions of their key, so the TTL only bounds storage growth.
const TTLHotspots = 7 * 24 * time.Hour

// NullCache never stores anything. It backs --no-cache and the "none"
// backend.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always misses.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards data.
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete does nothing.
func (*NullCache) Delete(context.Context, string) error { return nil }

// Close does nothing.
func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
