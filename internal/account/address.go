package account

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
)

// AddressLen is the byte length of an account hash.
const AddressLen = 20

var (
	ErrInvalidAddress = errors.New("invalid address")
)

// Address identifies an owner of coins, invoices and capabilities.
// Its text form is the base58 encoding of the 20-byte account hash.
type Address [AddressLen]byte

// ParseAddress decodes a base58 address string
func ParseAddress(s string) (Address, error) {
	var addr Address
	if s == "" {
		return addr, ErrInvalidAddress
	}

	raw, err := base58.Decode(s)
	if err != nil {
		return addr, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != AddressLen {
		return addr, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, AddressLen, len(raw))
	}

	copy(addr[:], raw)
	return addr, nil
}

// MustParseAddress is ParseAddress for constants and tests.
func MustParseAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

// NewRandomAddress returns a fresh address from crypto/rand
func NewRandomAddress() Address {
	var addr Address
	if _, err := rand.Read(addr[:]); err != nil {
		panic(fmt.Sprintf("account: reading random bytes: %v", err))
	}
	return addr
}

// String returns the base58 form.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// IsZero reports whether a is the zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// MarshalText implements encoding.TextMarshaler so addresses render as base58 in JSON.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
