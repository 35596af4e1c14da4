// Package store keeps the ledger of probe runs in a bbolt database.
package store

import (
	"time"

	bolt "go.etcd.io/bbolt"

	"oscomp.dev/chdirprobe/pkg/logutil"
)

var logger = logutil.GetLogger("[store] ")

const bucketRun = "runs"

// Store is the permanent storage backend of the run ledger.
type Store interface {
	AddRun(r Run) (Run, error)
	Runs(limit int) ([]Run, error)
	NextSeq() (int, error)
	Close() error
}

var initDB = map[string](func(*bolt.Tx) error){}

type dbStore struct {
	db *bolt.DB
}

// NewStore creates a Store backed by the database file at dbname. The file is
// created if it doesn't exist. Opening blocks for at most one second if
// another process holds the database.
func NewStore(dbname string) (Store, error) {
	db, err := bolt.Open(dbname, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	return NewStoreFromDB(db)
}

// NewStoreFromDB creates a Store from an existing database, initializing the
// buckets it needs.
func NewStoreFromDB(db *bolt.DB) (Store, error) {
	logger.Println("initializing store")
	err := db.Update(func(tx *bolt.Tx) error {
		for name, fn := range initDB {
			err := fn(tx)
			if err != nil {
				logger.Println("failed to", name, err)
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &dbStore{db}, nil
}

// Close closes the underlying database.
func (s *dbStore) Close() error {
	return s.db.Close()
}
