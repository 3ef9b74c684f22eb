// Package interfaces holds the storage contracts the handlers depend on, so
// the badger implementation stays swappable in tests and future backends.
package interfaces

import "context"

// StorageManager owns the portal's local persistence. The only durable
// state the portal keeps itself is user preferences; market data always
// comes from the remote API.
type StorageManager interface {
	// KeyValueStorage is where the settings handler persists preferences
	// under namespaced keys ("settings:...").
	KeyValueStorage() KeyValueStorage
	// DB exposes the underlying store for callers that need richer queries.
	DB() interface{}
	Close() error
}

// KeyValueStorage is a flat string key-value store. Get returns an error for
// a missing key; Delete of a missing key is a no-op.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	GetAll(ctx context.Context) (map[string]string, error)
}
