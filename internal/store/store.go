package store

import (
	"errors"

	"nicks/internal/models"
)

var (
	ErrNotFound = errors.New("key not found")
	ErrClosed   = errors.New("store is closed")
)

// Store is the NameOf map: account id to an encoded (record, deposit) value.
// Values are opaque to the store; their shape is decided by the on-chain
// schema version.
type Store interface {
	Get(key models.AccountID) ([]byte, error)
	Put(key models.AccountID, value []byte) error
	Delete(key models.AccountID) error
	// Keys returns every key once, in ascending byte order.
	Keys() ([]models.AccountID, error)
	Iterate(fn func(key models.AccountID, value []byte) error) error
	Count() (uint64, error)
}

// VersionStore persists the single on-chain schema version. A fresh store
// reports version 0.
type VersionStore interface {
	OnchainVersion() (models.SchemaVersion, error)
	PutOnchainVersion(v models.SchemaVersion) error
}

// Backend is a store together with its version record.
type Backend interface {
	Store
	VersionStore
	Close() error
}
