// Package blob stores uploaded file bytes under opaque keys.
//
// The domain layer records only the key and byte size; everything else about
// where and how the bytes live is a backend concern. Two backends are
// provided: a local filesystem store (the default) and an S3-compatible
// store for deployments with object storage.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// ErrNotExist is returned by Get when no blob exists under the given key.
var ErrNotExist = errors.New("blob: not exist")

// Store is the contract every backend satisfies.
//
//   - Put stores data and returns a fresh opaque key.
//   - Get returns a reader for the blob, or ErrNotExist. The caller closes it.
//   - Delete removes the blob; deleting a missing key is a no-op, which makes
//     the compensating purge after a failed upload safe to repeat.
type Store interface {
	Put(ctx context.Context, data []byte) (key string, err error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can report their own health.
// The /health endpoint checks for it with a type assertion.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewKey generates a storage key: a date prefix for human-navigable listings
// plus a UUID for uniqueness. Keys are opaque to everything but the backend.
func NewKey(now time.Time) string {
	return fmt.Sprintf("%04d/%02d/%02d/%s", now.Year(), int(now.Month()), now.Day(), uuid.New())
}
