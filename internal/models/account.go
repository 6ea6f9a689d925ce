package models

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// AccountIDLen is the size of an account identifier in bytes.
const AccountIDLen = 32

var ErrInvalidAccountID = errors.New("invalid account id")

// AccountID is the opaque key of the NameOf map.
type AccountID [AccountIDLen]byte

func (a AccountID) Bytes() []byte {
	return a[:]
}

func (a AccountID) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a AccountID) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountID) UnmarshalText(text []byte) error {
	id, err := ParseAccountID(string(text))
	if err != nil {
		return err
	}
	*a = id
	return nil
}

// ParseAccountID accepts a hex string with or without the 0x prefix.
func ParseAccountID(s string) (AccountID, error) {
	var id AccountID
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("%w: %s", ErrInvalidAccountID, err)
	}
	return AccountIDFromBytes(raw)
}

func AccountIDFromBytes(b []byte) (AccountID, error) {
	var id AccountID
	if len(b) != AccountIDLen {
		return id, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAccountID, AccountIDLen, len(b))
	}
	copy(id[:], b)
	return id, nil
}
