// Durable request/response stores, namespaced by a version tag
package cache

import "context"

// Store is a versioned key-value store for captured responses.
//
// Entries are written once, when the seed list is fetched at startup, and
// read for the lifetime of the store version. There is no expiry and no
// eviction: the only way to drop entries is Clear (wipes the whole version)
// or switching to a new version tag, which orphans the old namespace.
type Store interface {
	// initializes the store (e.g., creates directories, checks connectivity)
	Init(ctx context.Context) error
	// retrieves stored data for a key.
	// returns nil, nil when the key is not present
	Get(ctx context.Context, key string) ([]byte, error)
	// stores data under a key
	Set(ctx context.Context, key string, data []byte) error
	// removes every entry of this store's version
	Clear(ctx context.Context) error
	// the version tag this store is namespaced under
	Version() string
}
