package interfaces

import "context"

// ResultCache stores serialized extraction results keyed by input content.
type ResultCache interface {
	// Get returns the cached payload; ok is false on a miss
	Get(ctx context.Context, key string) (payload []byte, ok bool, err error)

	// Set stores the payload under key
	Set(ctx context.Context, key string, payload []byte) error

	// Close releases the backing connection
	Close() error
}
