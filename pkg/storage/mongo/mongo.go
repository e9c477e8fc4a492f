// Package mongo persists word entries in a MongoDB collection, one
// document per lowercase word.
package mongo

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"moderation/pkg/moderate"
	"moderation/pkg/storage"
)

const collName = "words"

type Store struct {
	client *mongo.Client
	dbName string
}

func New(ctx context.Context, conf *Config) (*Store, error) {
	client, err := mongo.Connect(ctx, conf.Options())
	if err != nil {
		return nil, err
	}

	s := Store{client: client, dbName: conf.DBName}
	s.createCollection(ctx, collName)

	return &s, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) Close(ctx context.Context) {
	s.client.Disconnect(ctx)
}

func (s *Store) coll() *mongo.Collection {
	return s.client.Database(s.dbName).Collection(collName)
}

// Entries returns every persisted entry sorted by word.
func (s *Store) Entries(ctx context.Context) ([]moderate.Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "word", Value: 1}})

	cur, err := s.coll().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	var entries []moderate.Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}

	return entries, nil
}

// Upsert inserts or replaces the document keyed by the entry's
// lowercase word.
func (s *Store) Upsert(ctx context.Context, entry moderate.Entry) error {
	key := strings.ToLower(strings.TrimSpace(entry.Word))
	if key == "" {
		return storage.ErrWordNotProvided
	}
	entry.Word = key

	opts := options.Replace().SetUpsert(true)
	_, err := s.coll().ReplaceOne(ctx, bson.M{"word": key}, entry, opts)

	return err
}

// Delete removes the document for word and reports whether one
// existed.
func (s *Store) Delete(ctx context.Context, word string) (bool, error) {
	key := strings.ToLower(strings.TrimSpace(word))
	if key == "" {
		return false, storage.ErrWordNotProvided
	}

	res, err := s.coll().DeleteOne(ctx, bson.M{"word": key})
	if err != nil {
		return false, err
	}

	return res.DeletedCount > 0, nil
}

// createCollection creates the words collection if it doesn't already exist.
func (s *Store) createCollection(ctx context.Context, name string) error {
	db := s.client.Database(s.dbName)

	exists, err := collectionExists(ctx, db, name)
	if err != nil {
		return err
	}
	if !exists {
		return db.CreateCollection(ctx, name)
	}

	return nil
}

func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return false, fmt.Errorf("failed to list collection names: %w", err)
	}

	for _, n := range names {
		if n == name {
			return true, nil
		}
	}

	return false, nil
}
