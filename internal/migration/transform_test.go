package migration

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nicks/internal/models"
)

func TestUpgradeV0_SplitsOnLastSpace(t *testing.T) {
	got := UpgradeV0(models.RecordV0{Nick: models.Name("alice b smith"), Deposit: 42})

	assert.Equal(t, models.Name("alice b"), got.First)
	assert.Equal(t, models.SomeName(models.Name("smith")), got.Last)
	assert.Equal(t, models.Balance(42), got.Deposit)
}

func TestUpgradeV0_NoSpace(t *testing.T) {
	got := UpgradeV0(models.RecordV0{Nick: models.Name("alice"), Deposit: 1})

	assert.Equal(t, models.Name("alice"), got.First)
	assert.False(t, got.Last.Valid)
}

func TestUpgradeV1_DefaultsStatusActive(t *testing.T) {
	in := models.RecordV1{First: models.Name("bob"), Last: models.SomeName(models.Name("ross")), Deposit: 9}
	got := UpgradeV1(in)

	assert.Equal(t, models.StatusActive, got.Status)
	assert.Equal(t, in.First, got.First)
	assert.Equal(t, in.Last, got.Last)
	assert.Equal(t, in.Deposit, got.Deposit)
}

func TestUpgrade_Dispatch(t *testing.T) {
	rec, err := Upgrade(models.RecordV0{Nick: models.Name("a b"), Deposit: 3})
	require.NoError(t, err)
	assert.Equal(t, models.SchemaSplitNick, rec.Schema())
	assert.Equal(t, models.Balance(3), rec.Reserved())

	rec, err = Upgrade(models.RecordV1{First: models.Name("a"), Deposit: 3})
	require.NoError(t, err)
	assert.Equal(t, models.SchemaStatusNick, rec.Schema())

	_, err = Upgrade(models.RecordV2{First: models.Name("a")})
	assert.True(t, errors.Is(err, ErrUnknownStep))
}

func TestDecodeStaged_RawNickBound(t *testing.T) {
	data, err := models.EncodeRecord(models.RecordV0{Nick: models.Name("abcdefgh ij"), Deposit: 1})
	require.NoError(t, err)

	_, upgraded, err := decodeStaged(Steps[0], data, 8)
	require.NoError(t, err)
	assert.False(t, upgraded)

	_, _, err = decodeStaged(Steps[0], data, 7)
	assert.True(t, errors.Is(err, models.ErrNameTooLong))
}

func TestDecodeStaged_SplitNick(t *testing.T) {
	data, err := models.EncodeRecord(models.RecordV1{First: models.Name("carol ann"), Last: models.SomeName(models.Name("lee")), Deposit: 7})
	require.NoError(t, err)

	rec, upgraded, err := decodeStaged(Steps[1], data, 16)
	require.NoError(t, err)
	assert.False(t, upgraded)
	assert.Equal(t, models.RecordV1{First: models.Name("carol ann"), Last: models.SomeName(models.Name("lee")), Deposit: 7}, rec)
}

func TestDecodeStaged_AlreadyUpgraded(t *testing.T) {
	v1, err := models.EncodeRecord(models.RecordV1{First: models.Name("bob"), Deposit: 5})
	require.NoError(t, err)
	rec, upgraded, err := decodeStaged(Steps[0], v1, 16)
	require.NoError(t, err)
	assert.True(t, upgraded)
	assert.Equal(t, models.SchemaSplitNick, rec.Schema())

	v2, err := models.EncodeRecord(models.RecordV2{First: models.Name("bob"), Status: models.StatusActive, Deposit: 5})
	require.NoError(t, err)
	_, upgraded, err = decodeStaged(Steps[1], v2, 16)
	require.NoError(t, err)
	assert.True(t, upgraded)
}

func TestDecodeStaged_Garbage(t *testing.T) {
	_, upgraded, err := decodeStaged(Steps[0], []byte{0x01, 0x02}, 16)
	assert.Error(t, err)
	assert.False(t, upgraded)
}

func TestStepFrom_Unknown(t *testing.T) {
	_, ok := StepFrom(models.SchemaStatusNick)
	assert.False(t, ok)
}

func TestStepTable(t *testing.T) {
	require.Len(t, Steps, 2)
	for i, s := range Steps {
		assert.Equal(t, s.From+1, s.To)
		if i > 0 {
			assert.Equal(t, Steps[i-1].To, s.From)
		}
	}
	s, ok := StepTo(models.SchemaStatusNick)
	require.True(t, ok)
	assert.Equal(t, "v1_to_v2", s.Name)
	_, ok = StepTo(models.SchemaRawNick)
	assert.False(t, ok)
}
