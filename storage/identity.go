package storage

import (
	"encoding/json"

	"go.etcd.io/bbolt"

	"outpost/models"
)

const (
	identityBucket = "Identity"
	identityKey    = "current"
)

// IdentityStore persists the current identity record so the auth session
// can be restored at startup. This is collaborator state owned by the
// identity provider, not label cache state; the label cache itself is
// never written to disk.
type IdentityStore struct {
	db *bbolt.DB
}

// NewIdentityStore creates a store over an already-open database
func NewIdentityStore(db *bbolt.DB) *IdentityStore {
	return &IdentityStore{db: db}
}

// identityRecord carries the credential hash the public user model
// deliberately keeps out of JSON responses.
type identityRecord struct {
	models.User
	PasswordHash string `json:"password_hash,omitempty"`
}

// SaveIdentity stores the identity record
func (s *IdentityStore) SaveIdentity(user *models.User) error {
	rec := identityRecord{User: *user, PasswordHash: user.PasswordHash}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(identityBucket)).Put([]byte(identityKey), data)
	})
}

// LoadIdentity returns the stored identity record, or nil when none exists
func (s *IdentityStore) LoadIdentity() (*models.User, error) {
	var user *models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(identityBucket)).Get([]byte(identityKey))
		if data == nil {
			return nil
		}

		var rec identityRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		u := rec.User
		u.PasswordHash = rec.PasswordHash
		user = &u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ClearIdentity removes the stored identity record
func (s *IdentityStore) ClearIdentity() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(identityBucket)).Delete([]byte(identityKey))
	})
}
