package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value
var ErrNotFound = errors.New("storage: key not found")

// Store is a string key-value slot store.
// Every write is a full overwrite or delete; Delete on a missing key is a no-op.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by stores backed by a remote service
type Pinger interface {
	Ping(ctx context.Context) error
}
