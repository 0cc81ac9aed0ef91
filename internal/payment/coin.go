// Package payment implements the single fungible token restaurants are paid in.
//
// Coins and balances are linear: value only moves between them through Split
// and Join, and a source coin is left empty once its value has been taken.
package payment

import (
	"errors"
	"math"

	"github.com/google/uuid"
)

var (
	ErrInsufficientValue = errors.New("insufficient coin value")
	ErrOverflow          = errors.New("value overflow")
	ErrNonEmptyCoin      = errors.New("cannot destroy a coin that still holds value")
)

// Coin is an owned amount of the payment token.
type Coin struct {
	id    uuid.UUID
	value uint64
}

// Mint creates a coin out of thin air. Only the token issuer (the faucet) calls this.
func Mint(value uint64) *Coin {
	return &Coin{id: uuid.New(), value: value}
}

// ID returns the coin's identity
func (c *Coin) ID() uuid.UUID {
	return c.id
}

// Value returns the amount held by the coin
func (c *Coin) Value() uint64 {
	return c.value
}

// Split takes amount out of c into a new coin. c keeps the remainder.
func (c *Coin) Split(amount uint64) (*Coin, error) {
	if amount > c.value {
		return nil, ErrInsufficientValue
	}
	c.value -= amount
	return &Coin{id: uuid.New(), value: amount}, nil
}

// Join moves all of other's value into c and empties other.
func (c *Coin) Join(other *Coin) error {
	if other.value > math.MaxUint64-c.value {
		return ErrOverflow
	}
	c.value += other.value
	other.value = 0
	return nil
}

// Destroy retires an empty coin
func (c *Coin) Destroy() error {
	if c.value != 0 {
		return ErrNonEmptyCoin
	}
	c.id = uuid.Nil
	return nil
}
