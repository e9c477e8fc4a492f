// Package memdb is the in-memory Store used in development mode and
// in tests. Entries do not survive a restart.
package memdb

import (
	"context"
	"sort"
	"strings"
	"sync"

	"moderation/pkg/moderate"
	"moderation/pkg/storage"
)

type Store struct {
	mu      sync.Mutex
	entries map[string]moderate.Entry
}

func New() *Store {
	return &Store{
		entries: make(map[string]moderate.Entry),
	}
}

func (db *Store) Entries(ctx context.Context) ([]moderate.Entry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]moderate.Entry, 0, len(db.entries))
	for _, e := range db.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Word < out[j].Word })

	return out, nil
}

func (db *Store) Upsert(ctx context.Context, entry moderate.Entry) error {
	key := strings.ToLower(strings.TrimSpace(entry.Word))
	if key == "" {
		return storage.ErrWordNotProvided
	}
	entry.Word = key

	db.mu.Lock()
	defer db.mu.Unlock()
	db.entries[key] = entry

	return nil
}

func (db *Store) Delete(ctx context.Context, word string) (bool, error) {
	key := strings.ToLower(strings.TrimSpace(word))
	if key == "" {
		return false, storage.ErrWordNotProvided
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.entries[key]; !ok {
		return false, nil
	}
	delete(db.entries, key)

	return true, nil
}

func (db *Store) Ping(ctx context.Context) error {
	return nil
}
