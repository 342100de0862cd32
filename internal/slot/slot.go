// Package slot defines the key-value backends the store persists its named
// slots into. Each slot holds one serialized value.
package slot

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("slot not found")
	ErrClosed   = errors.New("slot backend closed")
)

// UpdateFunc receives the current values of the requested keys (absent keys
// are missing from the map) and returns the values to write. A nil value
// deletes the key. Returning an error aborts the update without writing.
type UpdateFunc func(current map[string][]byte) (map[string][]byte, error)

type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Update applies fn to keys as one atomic unit.
	Update(ctx context.Context, keys []string, fn UpdateFunc) error
	Close() error
}

// Change is emitted when a slot is written by another origin. A nil Value
// means the slot was deleted.
type Change struct {
	Key    string
	Value  []byte
	Origin string
}

// Watcher is implemented by backends that can notify other contexts of writes.
// Changes written under the watching context's own origin are not delivered.
// The channel is closed when ctx is done.
type Watcher interface {
	Watch(ctx context.Context, key string) (<-chan Change, error)
}

type originKey struct{}

// WithOrigin tags writes made with ctx with the given origin id.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, originKey{}, origin)
}

// Origin returns the origin carried by ctx, or "".
func Origin(ctx context.Context) string {
	o, _ := ctx.Value(originKey{}).(string)
	return o
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
