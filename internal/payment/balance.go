package payment

import "math"

// Balance is token value held inside an object rather than by an address.
// The zero Balance is empty and ready to use.
type Balance struct {
	value uint64
}

// Value returns the amount held
func (b Balance) Value() uint64 {
	return b.value
}

// CanJoin reports whether amount can be added without overflowing.
func (b Balance) CanJoin(amount uint64) bool {
	return amount <= math.MaxUint64-b.value
}

// Join consumes the coin into the balance.
func (b *Balance) Join(c *Coin) error {
	if !b.CanJoin(c.value) {
		return ErrOverflow
	}
	b.value += c.value
	c.value = 0
	return nil
}

// Split withdraws amount from the balance as a new coin.
func (b *Balance) Split(amount uint64) (*Coin, error) {
	if amount > b.value {
		return nil, ErrInsufficientValue
	}
	b.value -= amount
	return Mint(amount), nil
}
