package mongo

import (
	"context"

	"moderation/pkg/storage"
)

var MongoTestConf = &Config{
	Host:   "localhost",
	Port:   "27018",
	DBName: "moderation_test",
}

// StorageConnect is a helper function that establishes a connection to the predefined test Mongo instance.
// It returns a connected Store object or an error if connection fails.
func StorageConnect(ctx context.Context) (*Store, error) {
	conf := MongoTestConf
	db, err := New(ctx, conf)
	if err != nil {
		return nil, storage.ErrConnectDB
	}

	err = db.Ping(ctx)
	if err != nil {
		return nil, storage.ErrDBNotResponding
	}

	return db, nil
}

// RestoreDB drops the words collection to reset the database state.
// WARNING: Use only in tests to avoid data loss.
func RestoreDB(db *Store) error {
	return db.coll().Drop(context.Background())
}
