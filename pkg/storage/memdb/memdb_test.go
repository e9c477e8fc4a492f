package memdb

import (
	"context"
	"errors"
	"testing"

	"moderation/pkg/moderate"
	"moderation/pkg/storage"
)

func TestStore_UpsertEntriesDelete(t *testing.T) {
	db := New()
	ctx := context.Background()

	err := db.Upsert(ctx, moderate.Entry{Word: "Zounds", Severity: moderate.SeverityMild, Alternatives: []string{"wow"}})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	entries, err := db.Entries(ctx)
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Word != "zounds" {
		t.Fatalf("entries = %+v; want one lowercased entry", entries)
	}

	// Upsert replaces by key.
	err = db.Upsert(ctx, moderate.Entry{Word: "zounds", Severity: moderate.SeveritySevere})
	if err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	entries, _ = db.Entries(ctx)
	if len(entries) != 1 || entries[0].Severity != moderate.SeveritySevere {
		t.Fatalf("entries after overwrite = %+v; want severity severe", entries)
	}

	ok, err := db.Delete(ctx, "ZOUNDS")
	if err != nil || !ok {
		t.Fatalf("Delete = (%v, %v); want (true, nil)", ok, err)
	}
	ok, err = db.Delete(ctx, "zounds")
	if err != nil || ok {
		t.Fatalf("Delete of missing entry = (%v, %v); want (false, nil)", ok, err)
	}
}

func TestStore_EmptyWord(t *testing.T) {
	db := New()
	ctx := context.Background()

	if err := db.Upsert(ctx, moderate.Entry{}); !errors.Is(err, storage.ErrWordNotProvided) {
		t.Errorf("Upsert of empty word err = %v; want %v", err, storage.ErrWordNotProvided)
	}
	if _, err := db.Delete(ctx, "  "); !errors.Is(err, storage.ErrWordNotProvided) {
		t.Errorf("Delete of empty word err = %v; want %v", err, storage.ErrWordNotProvided)
	}
}
