package storage

import (
	"context"
)

// ObjectStorage stores artifact bytes by key. Put has overwrite semantics:
// writing the same key twice leaves one object, which keeps redelivered
// worker invocations idempotent.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Location(key string) string
}
