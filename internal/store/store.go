// Package store is the key/value persistence behind the widget cache.
package store

import (
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-faster/errors"
)

var ErrNotFound = errors.New("not found")

type Storer interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

// Open returns a badger-backed store rooted at dir. An empty dir keeps
// everything in memory for the life of the process.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create store dir %q", dir)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open store %q", dir)
	}

	return &Store{db: db}, nil
}

type Store struct {
	db *badger.DB
}

func (s *Store) Get(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return errors.Wrap(err, "get")
		}

		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Set overwrites any previous value under key.
func (s *Store) Set(key string, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(key), value); err != nil {
			return errors.Wrap(err, "set")
		}
		return nil
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
