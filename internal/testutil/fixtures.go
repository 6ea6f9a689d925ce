package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nicks/internal/models"
	"nicks/internal/store"
	"nicks/internal/structures"
)

// Account returns a deterministic account id whose bytes are all b.
func Account(b byte) models.AccountID {
	var id models.AccountID
	for i := range id {
		id[i] = b
	}
	return id
}

// TestConfig is a valid configuration for a memory backed store.
func TestConfig() *structures.Config {
	return &structures.Config{
		AppName: "NicksMigrationDaemon",
		Store: structures.StoreConfig{
			Backend: "memory",
		},
		Migration: structures.MigrationConfig{
			TargetVersion: uint16(models.LatestSchema),
			MaxLength:     16,
			DecodeFailure: "drop",
			Weight:        structures.WeightConfig{Read: 25_000_000, Write: 100_000_000},
		},
		Cache: structures.CacheConfig{Enabled: false},
	}
}

// PutRecord encodes rec and stores it under key.
func PutRecord(t *testing.T, s store.Store, key models.AccountID, rec models.Record) {
	t.Helper()
	data, err := models.EncodeRecord(rec)
	require.NoError(t, err)
	require.NoError(t, s.Put(key, data))
}

// SeedRawNicks fills a fresh memory store with schema 0 records.
func SeedRawNicks(t *testing.T, nicks map[models.AccountID]models.RecordV0) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	for key, rec := range nicks {
		PutRecord(t, s, key, rec)
	}
	return s
}

// ScenarioStore holds three schema 0 entries: alice smith, bob and carol ann lee.
func ScenarioStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	return SeedRawNicks(t, map[models.AccountID]models.RecordV0{
		Account(0xA): {Nick: models.Name("alice smith"), Deposit: 10},
		Account(0xB): {Nick: models.Name("bob"), Deposit: 5},
		Account(0xC): {Nick: models.Name("carol ann lee"), Deposit: 7},
	})
}
