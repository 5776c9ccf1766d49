// Package cache provides content-addressed caching for lowered views and
// rendered artifacts.
//
// Lowering is deterministic over an immutable graph, so a view is fully
// identified by the graph's content hash plus the build root; rendered
// artifacts additionally key on format options. Backends: file (CLI),
// redis (shared server deployments), null (disabled).
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnknownBackend is returned by [Open] for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown cache backend")

// Default TTLs per entry class.
const (
	// TTLView is how long lowered views stay cached. Views are cheap to
	// rebuild, so a short TTL keeps stale graphs from lingering.
	TTLView = 24 * time.Hour

	// TTLArtifact is how long rendered artifacts (SVG, DOT) stay cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys for the lowering pipeline's stages.
type Keyer interface {
	// ViewKey identifies a lowered view by graph content hash and root path.
	ViewKey(graphHash, root string) string

	// ArtifactKey identifies a rendered artifact by view key inputs plus
	// the output format.
	ArtifactKey(graphHash, root, format string) string
}

// DefaultKeyer hashes key components into fixed-length namespaced keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// ViewKey implements Keyer.
func (k *DefaultKeyer) ViewKey(graphHash, root string) string {
	return hashKey("view", graphHash, root)
}

// ArtifactKey implements Keyer.
func (k *DefaultKeyer) ArtifactKey(graphHash, root, format string) string {
	return hashKey("artifact", graphHash, root, format)
}

// Config selects and configures a cache backend.
type Config struct {
	// Backend is "file", "redis" or "none".
	Backend string

	// Dir is the directory for the file backend.
	Dir string

	// RedisAddr is the host:port for the redis backend.
	RedisAddr string
}

// Open creates the backend described by cfg. An empty backend name means
// "file". "none" disables caching via the null backend.
func Open(cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileCache(cfg.Dir)
	case "redis":
		return NewRedisCache(cfg.RedisAddr), nil
	case "none":
		return NewNullCache(), nil
	default:
		return nil, ErrUnknownBackend
	}
}
