package migration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"nicks/internal/models"
	"nicks/internal/store"
	"nicks/internal/structures"
	"nicks/internal/testutil"
)

type fixture struct {
	runner  RunnerInterface
	logger  *testutil.MockLogger
	metrics *testutil.MockMetrics
	conf    *structures.Config
}

func newFixture(names store.Backend, conf *structures.Config) *fixture {
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	return &fixture{
		runner:  NewRunnerFromConfig(names, metrics, logger, conf),
		logger:  logger,
		metrics: metrics,
		conf:    conf,
	}
}

func contents(t *testing.T, s store.Store) map[models.AccountID][]byte {
	t.Helper()
	out := make(map[models.AccountID][]byte)
	require.NoError(t, s.Iterate(func(key models.AccountID, value []byte) error {
		out[key] = append([]byte(nil), value...)
		return nil
	}))
	return out
}

func decodeV1(t *testing.T, s store.Store, key models.AccountID) models.RecordV1 {
	t.Helper()
	raw, err := s.Get(key)
	require.NoError(t, err)
	rec, err := models.DecodeV1(raw, 16)
	require.NoError(t, err)
	return rec
}

func decodeV2(t *testing.T, s store.Store, key models.AccountID) models.RecordV2 {
	t.Helper()
	raw, err := s.Get(key)
	require.NoError(t, err)
	rec, err := models.DecodeV2(raw, 16)
	require.NoError(t, err)
	return rec
}
