// Package metadata is the local key/value table the session is persisted in.
package metadata

import "context"

// Repository stores opaque values by key. Reads return only the keys that
// exist; deleting a missing key is not an error.
type Repository interface {
	GetMany(ctx context.Context, keys ...string) (map[string][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
