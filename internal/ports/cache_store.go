package ports

import "context"

// CacheStore is the local persistent key/value store. Get returns an error
// wrapping domain.ErrKeyNotFound when the key is absent.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
