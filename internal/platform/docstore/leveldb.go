package docstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/syndtr/goleveldb/leveldb"
)

// levelStore persists documents in an embedded LevelDB database. This is the
// default driver: a durable single-process key-value store with no external
// dependencies.
type levelStore struct {
	db *leveldb.DB
}

// OpenLevelStore opens (or creates) a LevelDB database at path.
func OpenLevelStore(path string) (Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb at %s: %w", path, err)
	}
	return &levelStore{db: db}, nil
}

func (s *levelStore) Get(_ context.Context, key string) ([]byte, error) {
	v, err := s.db.Get([]byte(key), nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("leveldb get %q: %w", key, err)
	}
	return v, nil
}

func (s *levelStore) Set(_ context.Context, key string, value []byte) error {
	if err := s.db.Put([]byte(key), value, nil); err != nil {
		return fmt.Errorf("leveldb put %q: %w", key, err)
	}
	return nil
}

func (s *levelStore) Remove(_ context.Context, key string) error {
	if err := s.db.Delete([]byte(key), nil); err != nil {
		return fmt.Errorf("leveldb delete %q: %w", key, err)
	}
	return nil
}

func (s *levelStore) Clear(_ context.Context) error {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		if err := s.db.Delete(iter.Key(), nil); err != nil {
			return fmt.Errorf("leveldb clear %q: %w", string(iter.Key()), err)
		}
	}
	return iter.Error()
}

func (s *levelStore) Keys(_ context.Context) ([]string, error) {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *levelStore) Close() error { return s.db.Close() }
