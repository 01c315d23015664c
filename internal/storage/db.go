// Package storage provides the database layer for Rutin.
package storage

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	badger "github.com/dgraph-io/badger/v4"
)

// AppName names the data directory under the XDG data home.
const AppName = "rutin"

// DB wraps a Badger database connection. Badger transactions are the unit of
// atomicity: a reader never observes a half-applied day rewrite because the
// rewrite happens inside a single Update transaction.
type DB struct {
	db   *badger.DB
	path string
}

// Options configures the database connection. An empty Path or InMemory
// opens a throwaway in-memory store, which is what the tests use.
type Options struct {
	Path     string
	InMemory bool
}

// DefaultPath returns the standard on-disk database location.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, AppName, "db")
}

// Open opens or creates a database per opts.
func Open(opts Options) (*DB, error) {
	path := opts.Path
	if opts.InMemory || path == "" {
		path = ""
	} else if err := os.MkdirAll(path, 0755); err != nil {
		return nil, err
	}

	badgerOpts := badger.DefaultOptions(path).
		WithInMemory(path == "").
		WithLoggingLevel(badger.ERROR)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}
	return &DB{db: db, path: path}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the database directory, empty for in-memory stores.
func (d *DB) Path() string {
	return d.path
}

// Badger exposes the underlying handle for code that needs raw transactions.
func (d *DB) Badger() *badger.DB {
	return d.db
}

// CheckIntegrity iterates a sample of keys and verifies their values are
// readable. It catches gross corruption early so the CLI can fail with a
// clear message instead of odd behavior mid-command.
func (d *DB) CheckIntegrity() error {
	return d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 10
		it := txn.NewIterator(opts)
		defer it.Close()

		count := 0
		for it.Rewind(); it.Valid() && count < 100; it.Next() {
			if err := it.Item().Value(func([]byte) error { return nil }); err != nil {
				return err
			}
			count++
		}
		return nil
	})
}
