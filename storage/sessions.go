package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const sessionBucket = "Sessions"

type sessionEntry struct {
	Value      []byte    `json:"value"`
	Expiration time.Time `json:"expiration"` // zero means no expiry
}

// SessionStorage persists fiber session data in BoltDB so a restart of
// the shell does not log the user out.
type SessionStorage struct {
	db *bbolt.DB
}

// NewSessionStorage opens (and initializes) the session database
func NewSessionStorage(dataDir string) (*SessionStorage, error) {
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "outpost.db")
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, bucket := range []string{sessionBucket, identityBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("create bucket %s: %s", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SessionStorage{db: db}, nil
}

// DB exposes the underlying handle for stores sharing the same file
func (s *SessionStorage) DB() *bbolt.DB {
	return s.db
}

// Get retrieves a session value. Expired entries read as absent and are
// dropped from the bucket on the spot.
func (s *SessionStorage) Get(key string) ([]byte, error) {
	var value []byte
	var expired bool

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(sessionBucket)).Get([]byte(key))
		if data == nil {
			return nil
		}

		var entry sessionEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return err
		}
		if !entry.Expiration.IsZero() && time.Now().After(entry.Expiration) {
			expired = true
			return nil
		}

		value = append([]byte(nil), entry.Value...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if expired {
		if err := s.Delete(key); err != nil {
			return nil, err
		}
		return nil, nil
	}

	return value, nil
}

// Set stores a session value with an optional expiration
func (s *SessionStorage) Set(key string, val []byte, exp time.Duration) error {
	entry := sessionEntry{Value: val}
	if exp > 0 {
		entry.Expiration = time.Now().Add(exp)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Put([]byte(key), data)
	})
}

// Delete removes a session value
func (s *SessionStorage) Delete(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sessionBucket)).Delete([]byte(key))
	})
}

// Reset removes all session values
func (s *SessionStorage) Reset() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(sessionBucket)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(sessionBucket))
		return err
	})
}

// Close closes the database connection
func (s *SessionStorage) Close() error {
	return s.db.Close()
}
