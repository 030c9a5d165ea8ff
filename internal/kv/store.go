// Package kv is a small JSON document store over bbolt, used for the
// folder registry record and the private vault.
package kv

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/nikbrunner/synthcache/internal/model"
)

// Buckets used by the application.
var (
	BucketSettings  = []byte("settings")
	BucketVault     = []byte("vault")
	BucketVaultMeta = []byte("vault_meta")
)

// Store wraps a bbolt database.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the database at path and ensures the buckets exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{BucketSettings, BucketVault, BucketVaultMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetJSON decodes the value at key into out. Returns model.ErrNotFound
// when the key is absent.
func (s *Store) GetJSON(bucket []byte, key string, out any) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucket).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("%s/%s: %w", bucket, key, model.ErrNotFound)
		}
		return json.Unmarshal(data, out)
	})
}

// PutJSON stores v under key.
func (s *Store) PutJSON(bucket []byte, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

// PutJSONIfAbsent stores v under key unless the key already exists, in
// one transaction. Reports whether v was stored.
func (s *Store) PutJSONIfAbsent(bucket []byte, key string, v any) (bool, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return false, err
	}

	stored := false
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b.Get([]byte(key)) != nil {
			return nil
		}
		stored = true
		return b.Put([]byte(key), data)
	})
	if err != nil {
		return false, err
	}
	return stored, nil
}

// Append stores v under the bucket's next sequence number and returns the
// generated key.
func (s *Store) Append(bucket []byte, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	var key string
	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key = seqKey(seq)
		return b.Put([]byte(key), data)
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(bucket []byte, key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Delete([]byte(key))
	})
}

// ForEach calls fn with every key and raw value in key order. The value
// is a copy and stays valid after fn returns.
func (s *Store) ForEach(bucket []byte, fn func(key string, value []byte) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(k, v []byte) error {
			return fn(string(k), append([]byte(nil), v...))
		})
	})
}

// Count returns the number of keys in bucket.
func (s *Store) Count(bucket []byte) (int, error) {
	var n int
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucket).Stats().KeyN
		return nil
	})
	return n, err
}

// IsNotFound reports whether err is a missing-key error.
func IsNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound)
}

// seqKey is big-endian hex so keys sort in insertion order.
func seqKey(seq uint64) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], seq)
	return fmt.Sprintf("%x", b)
}
