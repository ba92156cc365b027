// Package keystore persists the API key to account mapping used by the
// automation surface. Keys live in a standalone BoltDB file, separate
// from the relational store, and only their SHA-256 digests are written.
package keystore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/cybertodo/backend/domain"
)

const bucketName = "api_keys"

// Store wraps BoltDB to persist API key records.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucketName),
	}, nil
}

// Generate mints a new raw API key bound to the given user, persists its
// digest, and returns the raw key. The raw key is shown exactly once.
func (s *Store) Generate(name, userID string) (string, error) {
	if s == nil || s.db == nil {
		return "", bolt.ErrDatabaseNotOpen
	}

	raw := "ct-" + uuid.NewString()
	record := domain.APIKey{
		Hash:      HashKey(raw),
		Name:      name,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		Active:    true,
	}

	if err := s.put(record); err != nil {
		return "", err
	}
	return raw, nil
}

// Validate resolves a raw API key to its record, updating last_used.
// Unknown or revoked keys fail with ErrInvalidAPIKey.
func (s *Store) Validate(rawKey string) (*domain.APIKey, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if rawKey == "" {
		return nil, domain.ErrInvalidAPIKey
	}

	hash := HashKey(rawKey)
	var record domain.APIKey

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		payload := b.Get([]byte(hash))
		if payload == nil {
			return domain.ErrInvalidAPIKey
		}
		if err := json.Unmarshal(payload, &record); err != nil {
			return err
		}
		if !record.Active {
			return domain.ErrInvalidAPIKey
		}

		now := time.Now().UTC()
		record.LastUsed = &now
		updated, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return b.Put([]byte(hash), updated)
	})
	if err != nil {
		return nil, err
	}

	record.Hash = hash
	return &record, nil
}

// Revoke deactivates the key with the given digest. Missing keys report
// ErrInvalidAPIKey so callers can tell a no-op from a revocation.
func (s *Store) Revoke(hash string) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		payload := b.Get([]byte(hash))
		if payload == nil {
			return domain.ErrInvalidAPIKey
		}
		var record domain.APIKey
		if err := json.Unmarshal(payload, &record); err != nil {
			return err
		}
		record.Active = false
		updated, err := json.Marshal(record)
		if err != nil {
			return err
		}
		return b.Put([]byte(hash), updated)
	})
}

// List returns every stored key record, digests included.
func (s *Store) List() ([]domain.APIKey, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}

	var records []domain.APIKey
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(k, v []byte) error {
			var record domain.APIKey
			if err := json.Unmarshal(v, &record); err != nil {
				return err
			}
			record.Hash = string(k)
			records = append(records, record)
			return nil
		})
	})
	return records, err
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) put(record domain.APIKey) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(record.Hash), payload)
	})
}

// HashKey returns the hex SHA-256 digest of a raw API key.
func HashKey(rawKey string) string {
	sum := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(sum[:])
}
