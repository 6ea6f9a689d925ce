package store

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"nicks/internal/models"
)

var (
	namesBucket = []byte("NameOf")
	metaBucket  = []byte("meta")
	versionKey  = []byte("storage_version")
)

// BoltStore keeps the NameOf map and its storage version in one bolt file.
type BoltStore struct {
	path string
	db   *bolt.DB
}

// OpenBoltStore opens or creates the bolt file at path and ensures both
// buckets exist.
func OpenBoltStore(path string, timeout time.Duration) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("unable to open boltdb %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(namesBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(metaBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to initialize boltdb %s: %w", path, err)
	}
	return &BoltStore{path: path, db: db}, nil
}

func (s *BoltStore) Path() string {
	return s.path
}

func (s *BoltStore) Get(key models.AccountID) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		val := tx.Bucket(namesBucket).Get(key[:])
		if val == nil {
			return ErrNotFound
		}
		out = cloneBytes(val)
		return nil
	})
	return out, err
}

func (s *BoltStore) Put(key models.AccountID, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(namesBucket).Put(key[:], value)
	})
}

func (s *BoltStore) Delete(key models.AccountID) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(namesBucket).Delete(key[:])
	})
}

func (s *BoltStore) Keys() ([]models.AccountID, error) {
	var keys []models.AccountID
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(namesBucket).ForEach(func(k, _ []byte) error {
			id, err := models.AccountIDFromBytes(k)
			if err != nil {
				return err
			}
			keys = append(keys, id)
			return nil
		})
	})
	return keys, err
}

// Iterate runs fn inside a read transaction; fn must not write to the store.
func (s *BoltStore) Iterate(fn func(key models.AccountID, value []byte) error) error {
	return s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(namesBucket).ForEach(func(k, v []byte) error {
			id, err := models.AccountIDFromBytes(k)
			if err != nil {
				return err
			}
			return fn(id, cloneBytes(v))
		})
	})
}

func (s *BoltStore) Count() (uint64, error) {
	var n uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		n = uint64(tx.Bucket(namesBucket).Stats().KeyN)
		return nil
	})
	return n, err
}

func (s *BoltStore) OnchainVersion() (models.SchemaVersion, error) {
	var v models.SchemaVersion
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(metaBucket).Get(versionKey)
		if raw == nil {
			return nil
		}
		if len(raw) != 2 {
			return fmt.Errorf("corrupt storage version: %d bytes", len(raw))
		}
		v = models.SchemaVersion(binary.LittleEndian.Uint16(raw))
		return nil
	})
	return v, err
}

func (s *BoltStore) PutOnchainVersion(v models.SchemaVersion) error {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(v))
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(metaBucket).Put(versionKey, buf)
	})
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
