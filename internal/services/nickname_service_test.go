package services

import (
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nicks/internal/models"
	"nicks/internal/store"
	"nicks/internal/testutil"
)

func TestNicknameService_DecodesAtOnchainVersion(t *testing.T) {
	s := store.NewMemoryStore()
	testutil.PutRecord(t, s, testutil.Account(1), models.RecordV1{
		First:   models.Name("carol ann"),
		Last:    models.SomeName(models.Name("lee")),
		Deposit: 7,
	})
	require.NoError(t, s.PutOnchainVersion(models.SchemaSplitNick))

	cache := testutil.NewMockCache()
	svc := NewNicknameService(s, cache, &testutil.MockLogger{}, testutil.TestConfig())

	data, err := svc.Get(testutil.Account(1))
	require.NoError(t, err)

	var view map[string]any
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, testutil.Account(1).String(), view["account"])
	assert.Equal(t, float64(1), view["schema"])
	rec := view["record"].(map[string]any)
	assert.Equal(t, "carol ann", rec["first"])
	assert.Equal(t, "lee", rec["last"])
	assert.Equal(t, float64(7), rec["deposit"])

	assert.Contains(t, cache.Data, "nick:"+testutil.Account(1).String())
}

func TestNicknameService_StatusField(t *testing.T) {
	s := store.NewMemoryStore()
	testutil.PutRecord(t, s, testutil.Account(2), models.RecordV2{First: models.Name("bob"), Status: models.StatusActive, Deposit: 5})
	require.NoError(t, s.PutOnchainVersion(models.SchemaStatusNick))

	data, err := NewNicknameService(s, testutil.NewMockCache(), &testutil.MockLogger{}, testutil.TestConfig()).Get(testutil.Account(2))
	require.NoError(t, err)
	assert.JSONEq(t, `{"account":"`+testutil.Account(2).String()+`","schema":2,"record":{"first":"bob","last":null,"status":"active","deposit":5}}`, string(data))
}

func TestNicknameService_ServesFromCache(t *testing.T) {
	cache := testutil.NewMockCache()
	key := testutil.Account(3)
	cache.Set("nick:"+key.String(), []byte(`{"cached":true}`))

	data, err := NewNicknameService(store.NewMemoryStore(), cache, &testutil.MockLogger{}, testutil.TestConfig()).Get(key)
	require.NoError(t, err)
	assert.Equal(t, `{"cached":true}`, string(data))
}

func TestNicknameService_NotFound(t *testing.T) {
	_, err := NewNicknameService(store.NewMemoryStore(), testutil.NewMockCache(), &testutil.MockLogger{}, testutil.TestConfig()).Get(testutil.Account(4))
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestNicknameService_UndecodableValue(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Put(testutil.Account(5), []byte{0x01}))
	logger := &testutil.MockLogger{}

	_, err := NewNicknameService(s, testutil.NewMockCache(), logger, testutil.TestConfig()).Get(testutil.Account(5))
	assert.True(t, errors.Is(err, models.ErrMalformed))
	assert.Len(t, logger.Messages("warn"), 1)
}
