package docstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no stored document.
var ErrNotFound = errors.New("docstore: not found")

// Store is the raw key-value blob store underneath the document layer.
// Implementations must be safe for concurrent use. All operations are
// whole-document reads and writes; there is no partial update.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Notifier broadcasts key-change events so that other processes watching the
// same store can reload instead of polling blindly.
type Notifier interface {
	Publish(ctx context.Context, key string) error
	Subscribe(ctx context.Context) (<-chan string, error)
	Close() error
}
