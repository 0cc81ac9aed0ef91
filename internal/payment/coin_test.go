package payment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoin_Split(t *testing.T) {
	c := Mint(50)

	part, err := c.Split(30)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), part.Value())
	assert.Equal(t, uint64(20), c.Value())
	assert.NotEqual(t, c.ID(), part.ID())

	_, err = c.Split(21)
	assert.ErrorIs(t, err, ErrInsufficientValue)
	assert.Equal(t, uint64(20), c.Value(), "failed split must not move value")
}

func TestCoin_Join(t *testing.T) {
	a := Mint(5)
	b := Mint(7)

	require.NoError(t, a.Join(b))
	assert.Equal(t, uint64(12), a.Value())
	assert.Zero(t, b.Value())

	big := Mint(math.MaxUint64)
	one := Mint(1)
	assert.ErrorIs(t, big.Join(one), ErrOverflow)
	assert.Equal(t, uint64(1), one.Value())
}

func TestCoin_Destroy(t *testing.T) {
	c := Mint(1)
	assert.ErrorIs(t, c.Destroy(), ErrNonEmptyCoin)

	_, err := c.Split(1)
	require.NoError(t, err)
	assert.NoError(t, c.Destroy())
}

func TestBalance(t *testing.T) {
	var b Balance
	assert.Zero(t, b.Value())

	c := Mint(40)
	require.NoError(t, b.Join(c))
	assert.Equal(t, uint64(40), b.Value())
	assert.Zero(t, c.Value())

	out, err := b.Split(40)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), out.Value())
	assert.Zero(t, b.Value())

	_, err = b.Split(1)
	assert.ErrorIs(t, err, ErrInsufficientValue)
}
