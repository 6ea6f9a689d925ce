package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxLength = 16

func TestEncodeDecodeV0(t *testing.T) {
	data, err := EncodeRecord(RecordV0{Nick: Name("alice smith"), Deposit: 10})
	require.NoError(t, err)

	// u32 length + 11 bytes + u64 deposit
	assert.Len(t, data, 4+11+8)

	got, err := DecodeV0(data)
	require.NoError(t, err)
	assert.Equal(t, Name("alice smith"), got.Nick)
	assert.Equal(t, Balance(10), got.Deposit)
}

func TestEncodeDecodeV1(t *testing.T) {
	rec := RecordV1{First: Name("alice"), Last: SomeName(Name("smith")), Deposit: 10}
	data, err := EncodeRecord(rec)
	require.NoError(t, err)

	got, err := DecodeV1(data, testMaxLength)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestEncodeV1_OptionLayout(t *testing.T) {
	none, err := EncodeRecord(RecordV1{First: Name("bob"), Deposit: 5})
	require.NoError(t, err)
	some, err := EncodeRecord(RecordV1{First: Name("bob"), Last: SomeName(Name{}), Deposit: 5})
	require.NoError(t, err)

	// None is a single zero tag; Some(empty) is tag 1 plus a zero length.
	assert.Equal(t, byte(0), none[4+3])
	assert.Equal(t, byte(1), some[4+3])
	assert.Equal(t, len(none)+4, len(some))

	got, err := DecodeV1(none, testMaxLength)
	require.NoError(t, err)
	assert.False(t, got.Last.Valid)

	got, err = DecodeV1(some, testMaxLength)
	require.NoError(t, err)
	assert.True(t, got.Last.Valid)
	assert.Empty(t, got.Last.Value)
}

func TestEncodeDecodeV2(t *testing.T) {
	rec := RecordV2{First: Name("carol ann"), Last: SomeName(Name("lee")), Status: StatusInactive, Deposit: 7}
	data, err := EncodeRecord(rec)
	require.NoError(t, err)

	got, err := DecodeV2(data, testMaxLength)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestDecodeV2_InvalidStatus(t *testing.T) {
	data, err := EncodeRecord(RecordV2{First: Name("bob"), Status: StatusActive, Deposit: 5})
	require.NoError(t, err)
	// status byte sits right before the u64 deposit
	data[len(data)-9] = 7

	_, err = DecodeV2(data, testMaxLength)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestDecodeV1_NameTooLong(t *testing.T) {
	data, err := EncodeRecord(RecordV1{First: Name("a-very-long-first-name"), Deposit: 1})
	require.NoError(t, err)

	_, err = DecodeV1(data, testMaxLength)
	assert.ErrorIs(t, err, ErrNameTooLong)

	_, err = DecodeV1(data, 0)
	assert.NoError(t, err, "zero max length disables the bound")
}

func TestDecode_TrailingBytes(t *testing.T) {
	data, err := EncodeRecord(RecordV1{First: Name("bob"), Deposit: 5})
	require.NoError(t, err)

	_, err = DecodeV1(append(data, 0xff), testMaxLength)
	assert.ErrorIs(t, err, ErrTrailingBytes)
}

func TestDecode_Truncated(t *testing.T) {
	data, err := EncodeRecord(RecordV0{Nick: Name("alice"), Deposit: 10})
	require.NoError(t, err)

	_, err = DecodeV0(data[:len(data)-3])
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeV0(nil)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecode_OversizedLengthPrefix(t *testing.T) {
	data := []byte{0xf0, 0xff, 0xff, 0xff, 0, 0, 0, 0, 0, 0, 0, 0}

	_, err := DecodeV0(data)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.ErrorContains(t, err, "length prefix 4294967280 exceeds 8 remaining bytes")

	_, err = DecodeV1(data, testMaxLength)
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeV2(data, testMaxLength)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecode_OversizedLastPrefix(t *testing.T) {
	data, err := EncodeRecord(RecordV1{First: Name("bob"), Last: SomeName(Name("x")), Deposit: 5})
	require.NoError(t, err)
	copy(data[4+3+1:], []byte{0xf0, 0xff, 0xff, 0xff})

	_, err = DecodeV1(data, testMaxLength)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.ErrorContains(t, err, "length prefix 4294967280")
}

func TestDecode_BadOptionTag(t *testing.T) {
	data, err := EncodeRecord(RecordV1{First: Name("bob"), Deposit: 5})
	require.NoError(t, err)
	data[4+3] = 2

	_, err = DecodeV1(data, testMaxLength)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeRecord_BySchema(t *testing.T) {
	data, err := EncodeRecord(RecordV2{First: Name("bob"), Deposit: 5})
	require.NoError(t, err)

	rec, err := DecodeRecord(SchemaStatusNick, data, testMaxLength)
	require.NoError(t, err)
	assert.IsType(t, RecordV2{}, rec)

	_, err = DecodeRecord(SchemaVersion(9), data, testMaxLength)
	assert.ErrorIs(t, err, ErrUnknownSchema)
}
