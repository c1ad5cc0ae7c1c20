// Package modelstore persists trained model bundles. It uses BoltDB as
// the underlying storage engine and treats each bundle as an opaque
// blob keyed by model name, so the classifier owns the bundle layout.
package modelstore

import (
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const modelsBucket = "models" // Bucket name for model bundles

// ModelNotFoundError reports a load from a name that was never saved.
type ModelNotFoundError struct {
	Name string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("modelstore: model %q not found", e.Name)
}

// Store is a named-blob store for serialized model bundles.
type Store struct {
	db *bbolt.DB
}

// New opens (or creates) the store under dataPath and ensures the
// models bucket exists.
func New(dataPath string) (*Store, error) {
	dbPath := filepath.Join(dataPath, "learnpilot.db")

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(modelsBucket)); err != nil {
			return fmt.Errorf("create models bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database. Call it when the store is no longer
// needed so pending writes are flushed.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save writes a bundle under the given name, replacing any previous
// bundle with that name.
func (s *Store) Save(name string, bundle []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(modelsBucket)).Put([]byte(name), bundle)
	})
}

// Load returns the bundle saved under name, or ModelNotFoundError.
func (s *Store) Load(name string) ([]byte, error) {
	var bundle []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(modelsBucket)).Get([]byte(name))
		if v == nil {
			return &ModelNotFoundError{Name: name}
		}
		bundle = make([]byte, len(v))
		copy(bundle, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bundle, nil
}

// Exists reports whether a bundle is saved under name.
func (s *Store) Exists(name string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket([]byte(modelsBucket)).Get([]byte(name)) != nil
		return nil
	})
	return found, err
}

// Delete removes the bundle saved under name, if any.
func (s *Store) Delete(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(modelsBucket)).Delete([]byte(name))
	})
}
