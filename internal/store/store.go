// Package store implements the record store: a flat, durable key -> value
// persistence surface. Keys are strings and values are raw documents
// (JSON, except where the key space dictates a literal). The store is the
// single persistence layer for users, reports, notifications and
// preferences.
package store

import "context"

// Tx exposes the record operations available both on the store itself and
// inside a transaction.
type Tx interface {
	// Get returns the value stored under key. The second return value is
	// false if the key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys returns all keys starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Store is a record store with transactional batch updates. A mutation that
// must touch several keys (the report fan-out writes) runs inside Update so
// it cannot partially apply.
type Store interface {
	Tx

	// Update runs fn inside a single transaction. If fn returns an error
	// the transaction is rolled back and the error is returned.
	Update(ctx context.Context, fn func(tx Tx) error) error
}
