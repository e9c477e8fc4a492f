// Package postgres persists word entries in a Postgres table.
//
// Expected schema:
//
//	CREATE TABLE IF NOT EXISTS words (
//	    word         TEXT PRIMARY KEY,
//	    severity     INT NOT NULL,
//	    alternatives TEXT[] NOT NULL DEFAULT '{}',
//	    variants     TEXT[] NOT NULL DEFAULT '{}'
//	);
package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v4/pgxpool"

	"moderation/pkg/moderate"
	"moderation/pkg/storage"
)

type Store struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, conStr string) (*Store, error) {
	db, err := pgxpool.Connect(ctx, conStr)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *Store) Close() {
	s.db.Close()
}

// Entries returns every persisted entry sorted by word.
func (s *Store) Entries(ctx context.Context) ([]moderate.Entry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT word, severity, alternatives, variants
		FROM words
		ORDER BY word
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []moderate.Entry
	for rows.Next() {
		var (
			e        moderate.Entry
			severity int
		)
		err := rows.Scan(&e.Word, &severity, &e.Alternatives, &e.Variants)
		if err != nil {
			return nil, err
		}
		e.Severity = moderate.Severity(severity)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Upsert inserts the entry or updates the existing row keyed by the
// lowercase word.
func (s *Store) Upsert(ctx context.Context, entry moderate.Entry) error {
	key := strings.ToLower(strings.TrimSpace(entry.Word))
	if key == "" {
		return storage.ErrWordNotProvided
	}

	alternatives := entry.Alternatives
	if alternatives == nil {
		alternatives = []string{}
	}
	variants := entry.Variants
	if variants == nil {
		variants = []string{}
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO words (word, severity, alternatives, variants)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (word)
		DO UPDATE SET
			severity = EXCLUDED.severity,
			alternatives = EXCLUDED.alternatives,
			variants = EXCLUDED.variants
	`,
		key,
		int(entry.Severity),
		alternatives,
		variants,
	)

	return err
}

// Delete removes the row for word and reports whether one existed.
func (s *Store) Delete(ctx context.Context, word string) (bool, error) {
	key := strings.ToLower(strings.TrimSpace(word))
	if key == "" {
		return false, storage.ErrWordNotProvided
	}

	tag, err := s.db.Exec(ctx, `DELETE FROM words WHERE word = $1`, key)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
