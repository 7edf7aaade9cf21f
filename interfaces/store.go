package interfaces

import (
	"context"
	"iter"

	"maxwellmaster/domain"
)

// Store is the ordered key-value engine behind the registry.
//
// Implementations: adapters/pebbledb (embedded, default) and adapters/myredis.
// Every method returns a store_error MyError on engine failure.
//
//go:generate moq -stub -out mock/store.go -pkg mock . Store
type Store interface {
	// Put durably writes value under key, replacing any previous value.
	Put(ctx context.Context, key, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key []byte) error

	// DeleteRange removes every key in [start, end).
	DeleteRange(ctx context.Context, start, end []byte) error

	// Scan lazily yields every record whose key starts with prefix, in ascending key order.
	// The sequence is finite and may be iterated again to restart from the beginning.
	// A non-nil error is yielded at most once and ends the sequence.
	Scan(ctx context.Context, prefix []byte) iter.Seq2[domain.KeyValue, error]

	// Close releases the engine. No method may be called afterwards.
	Close() error
}
