package models

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// SchemaVersion tags the on-disk shape of every value in the store.
type SchemaVersion uint16

const (
	// SchemaRawNick stores the nickname as one unparsed byte string.
	SchemaRawNick SchemaVersion = 0
	// SchemaSplitNick stores first and optional last name segments.
	SchemaSplitNick SchemaVersion = 1
	// SchemaStatusNick adds the account status to the split nickname.
	SchemaStatusNick SchemaVersion = 2

	// LatestSchema is the newest shape this build knows how to write.
	LatestSchema = SchemaStatusNick
)

// Balance is the reserved deposit held for a nickname.
type Balance = uint64

type AccountStatus uint8

const (
	StatusActive AccountStatus = iota
	StatusInactive
	StatusUndefined
)

func (s AccountStatus) Valid() bool {
	return s <= StatusUndefined
}

func (s AccountStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	case StatusUndefined:
		return "undefined"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

func (s AccountStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Name is a bounded byte string. The bound is enforced by the codec.
type Name []byte

func (n Name) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(n))
}

// OptionalName is a Name that may be absent, in the manner of sql.NullString.
type OptionalName struct {
	Value Name
	Valid bool
}

func SomeName(n Name) OptionalName {
	return OptionalName{Value: n, Valid: true}
}

func (o OptionalName) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(string(o.Value))
}

// Record is the closed family of value shapes, one per schema version.
type Record interface {
	Schema() SchemaVersion
	Reserved() Balance
	isRecord()
}

// RecordV0 is a schema 0 value: the raw nickname as registered.
type RecordV0 struct {
	Nick    Name    `json:"nick"`
	Deposit Balance `json:"deposit"`
}

// RecordV1 is a schema 1 value.
type RecordV1 struct {
	First   Name         `json:"first"`
	Last    OptionalName `json:"last"`
	Deposit Balance      `json:"deposit"`
}

// RecordV2 is a schema 2 value, the current shape.
type RecordV2 struct {
	First   Name          `json:"first"`
	Last    OptionalName  `json:"last"`
	Status  AccountStatus `json:"status"`
	Deposit Balance       `json:"deposit"`
}

func (RecordV0) Schema() SchemaVersion { return SchemaRawNick }
func (RecordV1) Schema() SchemaVersion { return SchemaSplitNick }
func (RecordV2) Schema() SchemaVersion { return SchemaStatusNick }

func (r RecordV0) Reserved() Balance { return r.Deposit }
func (r RecordV1) Reserved() Balance { return r.Deposit }
func (r RecordV2) Reserved() Balance { return r.Deposit }

func (RecordV0) isRecord() {}
func (RecordV1) isRecord() {}
func (RecordV2) isRecord() {}

// SplitNick splits a raw nickname at its last space. Everything before the
// space is the first segment and everything after it the last segment. A
// nickname without a space becomes the first segment with no last segment.
func SplitNick(nick []byte) (Name, OptionalName) {
	idx := bytes.LastIndexByte(nick, ' ')
	if idx < 0 {
		return cloneName(nick), OptionalName{}
	}
	return cloneName(nick[:idx]), SomeName(cloneName(nick[idx+1:]))
}

func cloneName(b []byte) Name {
	out := make(Name, len(b))
	copy(out, b)
	return out
}
