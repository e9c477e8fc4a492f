// Package storage defines the persistence contract for custom word
// entries added at runtime. The built-in and feed-supplied word sets
// are loaded fresh at startup; only caller additions go through a
// Store.
package storage

import (
	"context"
	"fmt"

	"moderation/pkg/moderate"
)

var (
	ErrConnectDB       = fmt.Errorf("unable to establish DB connection")
	ErrDBNotResponding = fmt.Errorf("DB not responding")
	ErrWordNotProvided = fmt.Errorf("word not provided")
)

// Store persists word entries keyed by their lowercase word.
type Store interface {
	// Entries returns every persisted entry.
	Entries(ctx context.Context) ([]moderate.Entry, error)
	// Upsert inserts or replaces the entry for its word.
	Upsert(ctx context.Context, entry moderate.Entry) error
	// Delete removes the entry for word, reporting whether one existed.
	Delete(ctx context.Context, word string) (bool, error)
	// Ping checks the backing store is reachable.
	Ping(ctx context.Context) error
}
