// Package state persists engine records in a host key-value store. Each engine
// operation reads and writes through a Txn and commits its writes atomically.
package state

import "context"

// Write is a single key update. A nil Value deletes the key.
type Write struct {
	Key   []byte
	Value []byte
}

// Store is an atomic key-value store.
type Store interface {
	Get(ctx context.Context, key []byte) ([]byte, bool, error)
	Commit(ctx context.Context, writes []Write) error
	Close() error
}
