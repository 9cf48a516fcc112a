package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrKeyNotFound is returned by KV.Get when the key does not exist (or has expired).
var ErrKeyNotFound = errors.New("key not found")

// KV is a flat key-value storage backend.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetTransient stores a value that the backend may drop after ttl.
	SetTransient(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}
