package models

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/near/borsh-go"
)

var (
	ErrMalformed     = errors.New("malformed value")
	ErrTrailingBytes = errors.New("trailing bytes after value")
	ErrNameTooLong   = errors.New("name exceeds max length")
	ErrInvalidStatus = errors.New("invalid account status")
	ErrUnknownSchema = errors.New("unknown schema version")
)

// Values are Borsh tuples of (record, deposit). Option<Vec<u8>> is written
// as a complex enum: tag 0 for None, tag 1 followed by the bytes for Some.

type wireName struct {
	Bytes []byte
}

type wireOptionalName struct {
	Enum borsh.Enum `borsh_enum:"true"`
	None struct{}
	Some wireName
}

type wireV0 struct {
	Nick    []byte
	Deposit uint64
}

type wireV1 struct {
	First   []byte
	Last    wireOptionalName
	Deposit uint64
}

type wireV2 struct {
	First   []byte
	Last    wireOptionalName
	Status  uint8
	Deposit uint64
}

func toWireOptional(o OptionalName) wireOptionalName {
	if !o.Valid {
		return wireOptionalName{Enum: 0}
	}
	return wireOptionalName{Enum: 1, Some: wireName{Bytes: o.Value}}
}

func fromWireOptional(w wireOptionalName) OptionalName {
	if w.Enum == 0 {
		return OptionalName{}
	}
	return SomeName(cloneName(w.Some.Bytes))
}

// EncodeRecord serializes any record in the shape of its own schema.
func EncodeRecord(r Record) ([]byte, error) {
	switch rec := r.(type) {
	case RecordV0:
		return borsh.Serialize(wireV0{Nick: rec.Nick, Deposit: rec.Deposit})
	case RecordV1:
		return borsh.Serialize(wireV1{First: rec.First, Last: toWireOptional(rec.Last), Deposit: rec.Deposit})
	case RecordV2:
		return borsh.Serialize(wireV2{
			First:   rec.First,
			Last:    toWireOptional(rec.Last),
			Status:  uint8(rec.Status),
			Deposit: rec.Deposit,
		})
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownSchema, r)
	}
}

// decodeStrict decodes data into T and rejects input that does not
// re-encode to exactly the same bytes.
func decodeStrict[T any](data []byte) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()
	if err = borsh.Deserialize(&out, data); err != nil {
		return out, fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	canonical, err := borsh.Serialize(out)
	if err != nil {
		return out, fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	if len(canonical) < len(data) {
		return out, fmt.Errorf("%w: %d of %d bytes consumed", ErrTrailingBytes, len(canonical), len(data))
	}
	if !bytes.Equal(canonical, data) {
		return out, fmt.Errorf("%w: non-canonical encoding", ErrMalformed)
	}
	return out, nil
}

// skipVec returns the offset past the Vec<u8> at off. borsh allocates a
// buffer of the declared length before reading it, so a prefix larger than
// the remaining input is rejected here.
func skipVec(data []byte, off int) (int, error) {
	if len(data)-off < 4 {
		return 0, fmt.Errorf("%w: truncated length prefix", ErrMalformed)
	}
	n := binary.LittleEndian.Uint32(data[off:])
	off += 4
	if uint64(n) > uint64(len(data)-off) {
		return 0, fmt.Errorf("%w: length prefix %d exceeds %d remaining bytes", ErrMalformed, n, len(data)-off)
	}
	return off + int(n), nil
}

// checkPrefixes validates the leading name and, when withLast is set, the
// optional last name shared by every schema.
func checkPrefixes(data []byte, withLast bool) error {
	off, err := skipVec(data, 0)
	if err != nil || !withLast {
		return err
	}
	if off >= len(data) {
		return fmt.Errorf("%w: truncated option tag", ErrMalformed)
	}
	if data[off] != 1 {
		return nil
	}
	_, err = skipVec(data, off+1)
	return err
}

func checkBound(field string, n []byte, maxLength int) error {
	if maxLength > 0 && len(n) > maxLength {
		return fmt.Errorf("%w: %s is %d bytes, max %d", ErrNameTooLong, field, len(n), maxLength)
	}
	return nil
}

// DecodeV0 decodes a schema 0 value. The raw nickname is not bounded.
func DecodeV0(data []byte) (RecordV0, error) {
	if err := checkPrefixes(data, false); err != nil {
		return RecordV0{}, err
	}
	w, err := decodeStrict[wireV0](data)
	if err != nil {
		return RecordV0{}, err
	}
	return RecordV0{Nick: cloneName(w.Nick), Deposit: w.Deposit}, nil
}

// DecodeV1 decodes a schema 1 value, checking both segments against maxLength.
func DecodeV1(data []byte, maxLength int) (RecordV1, error) {
	if err := checkPrefixes(data, true); err != nil {
		return RecordV1{}, err
	}
	w, err := decodeStrict[wireV1](data)
	if err != nil {
		return RecordV1{}, err
	}
	rec := RecordV1{First: cloneName(w.First), Last: fromWireOptional(w.Last), Deposit: w.Deposit}
	if err := checkBound("first", rec.First, maxLength); err != nil {
		return RecordV1{}, err
	}
	if err := checkBound("last", rec.Last.Value, maxLength); err != nil {
		return RecordV1{}, err
	}
	return rec, nil
}

// DecodeV2 decodes a schema 2 value. Status bytes outside the enum fail.
func DecodeV2(data []byte, maxLength int) (RecordV2, error) {
	if err := checkPrefixes(data, true); err != nil {
		return RecordV2{}, err
	}
	w, err := decodeStrict[wireV2](data)
	if err != nil {
		return RecordV2{}, err
	}
	status := AccountStatus(w.Status)
	if !status.Valid() {
		return RecordV2{}, fmt.Errorf("%w: %d", ErrInvalidStatus, w.Status)
	}
	rec := RecordV2{First: cloneName(w.First), Last: fromWireOptional(w.Last), Status: status, Deposit: w.Deposit}
	if err := checkBound("first", rec.First, maxLength); err != nil {
		return RecordV2{}, err
	}
	if err := checkBound("last", rec.Last.Value, maxLength); err != nil {
		return RecordV2{}, err
	}
	return rec, nil
}

// DecodeRecord decodes data in the shape of the given schema version.
func DecodeRecord(v SchemaVersion, data []byte, maxLength int) (Record, error) {
	var (
		rec Record
		err error
	)
	switch v {
	case SchemaRawNick:
		rec, err = DecodeV0(data)
	case SchemaSplitNick:
		rec, err = DecodeV1(data, maxLength)
	case SchemaStatusNick:
		rec, err = DecodeV2(data, maxLength)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownSchema, v)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}
