package kvstore

import (
	"context"
	"errors"
)

// Record keys for the three durable records the studio owns.
const (
	KeyStories  = "stories"
	KeyActiveID = "active_id"
	KeySettings = "settings"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("kvstore: record not found")

// Store durable key/value record storage
type Store interface {
	// Get reads a record; ErrNotFound when absent
	Get(ctx context.Context, key string) ([]byte, error)

	// Set durably writes a record
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a record; absent records are not an error
	Delete(ctx context.Context, key string) error

	// Type returns the backend type name
	Type() string

	// Close releases backend resources
	Close() error
}

// Type backend type
type Type string

const (
	TypeFile  Type = "file"  // local JSON files, the default
	TypeRedis Type = "redis" // shared-box deployments
)
