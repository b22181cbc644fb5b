// Package modelcache persists serialized model artifacts in a local bbolt
// database, keyed by URI-style cache keys. Entries are immutable artifacts
// keyed by model identity; concurrent writers for the same key are
// tolerated (last write wins).
package modelcache

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketModels = []byte("models")

// Key derives the deterministic cache key for a model name.
func Key(modelName string) string { return "cache://" + modelName }

// Store is a persistent key-value cache for serialized models.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open model cache: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketModels)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init model cache: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Get returns the cached artifact for key. The second return reports
// whether the key was present at all.
func (s *Store) Get(key string) ([]byte, bool, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketModels).Get([]byte(key))
		if v == nil {
			return nil
		}
		out = make([]byte, len(v))
		copy(out, v)
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return out, out != nil, nil
}

// Put stores an artifact under key, replacing any previous entry.
func (s *Store) Put(key string, blob []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketModels).Put([]byte(key), blob)
	})
	if err != nil {
		return fmt.Errorf("cache put %s: %w", key, err)
	}
	return nil
}

// Delete removes the entry for key. Deleting a missing key is a no-op.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketModels).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}
