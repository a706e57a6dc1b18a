package repositories

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by KVStore.Get when nothing is stored under the key.
var ErrKeyNotFound = errors.New("key not found")

// KVStore persists opaque values under string keys.
// Every Set replaces the whole value; there is no partial update.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
