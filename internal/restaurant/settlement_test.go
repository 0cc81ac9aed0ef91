package restaurant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/payment"
)

func TestBuyProduct_Scenario(t *testing.T) {
	r, _ := newWithProduct(t, 10, 5)
	coin := payment.Mint(30)

	invoices, err := r.BuyProduct(0, 3, coin)
	require.NoError(t, err)

	assert.Len(t, invoices, 3)
	for _, inv := range invoices {
		assert.Equal(t, r.ID, inv.RestaurantID)
		assert.Equal(t, uint64(0), inv.ProductID)
	}
	assert.Equal(t, uint64(2), r.Products[0].Available)
	assert.True(t, r.Products[0].InStock)
	assert.Equal(t, uint64(30), r.Balance.Value())
	assert.Zero(t, coin.Value())
	checkStockRules(t, r)
}

func TestBuyProduct_ChangeStaysWithCaller(t *testing.T) {
	r, _ := newWithProduct(t, 10, 5)
	coin := payment.Mint(100)

	_, err := r.BuyProduct(0, 2, coin)
	require.NoError(t, err)

	assert.Equal(t, uint64(80), coin.Value())
	assert.Equal(t, uint64(20), r.Balance.Value())
}

func TestBuyProduct_Failures(t *testing.T) {
	tests := []struct {
		name     string
		prepare  func(t *testing.T, r *Restaurant, m Management)
		id       uint64
		quantity uint64
		payment  uint64
		wantErr  error
	}{
		{
			name:     "unknown product",
			id:       3,
			quantity: 1,
			payment:  10,
			wantErr:  ErrInvalidID,
		},
		{
			name: "more than available",
			prepare: func(t *testing.T, r *Restaurant, _ Management) {
				_, err := r.BuyProduct(0, 3, payment.Mint(30))
				require.NoError(t, err)
			},
			quantity: 6,
			payment:  60,
			wantErr:  ErrInvalidQuantity,
		},
		{
			name:     "underpaid",
			quantity: 2,
			payment:  15,
			wantErr:  ErrInsufficientBalance,
		},
		{
			name: "removed from stock",
			prepare: func(t *testing.T, r *Restaurant, m Management) {
				require.NoError(t, r.RemoveProductFromStock(m, 0))
			},
			quantity: 1,
			payment:  10,
			wantErr:  ErrStockOut,
		},
		{
			name: "quantity checked before stock flag",
			prepare: func(t *testing.T, r *Restaurant, m Management) {
				require.NoError(t, r.RemoveProductFromStock(m, 0))
			},
			quantity: 9,
			payment:  90,
			wantErr:  ErrInvalidQuantity,
		},
		{
			name: "payment checked before stock flag",
			prepare: func(t *testing.T, r *Restaurant, m Management) {
				require.NoError(t, r.RemoveProductFromStock(m, 0))
			},
			quantity: 1,
			payment:  1,
			wantErr:  ErrInsufficientBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, m := newWithProduct(t, 10, 5)
			if tt.prepare != nil {
				tt.prepare(t, r, m)
			}
			before := r.Clone()
			coin := payment.Mint(tt.payment)

			invoices, err := r.BuyProduct(tt.id, tt.quantity, coin)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, invoices)
			assert.Equal(t, before, r, "failed purchase must not change state")
			assert.Equal(t, tt.payment, coin.Value(), "failed purchase must not touch payment")
		})
	}
}

func TestBuyProduct_ZeroQuantity(t *testing.T) {
	r, _ := newWithProduct(t, 10, 5)
	coin := payment.Mint(10)

	invoices, err := r.BuyProduct(0, 0, coin)
	require.NoError(t, err)

	assert.Empty(t, invoices)
	assert.Equal(t, uint64(10), coin.Value())
	assert.Zero(t, r.Balance.Value())
	assert.Equal(t, uint64(5), r.Products[0].Available)
	assert.True(t, r.Products[0].InStock)
}

func TestBuyProduct_ZeroQuantityStillChecksStockFlag(t *testing.T) {
	r, m := newWithProduct(t, 10, 5)
	require.NoError(t, r.RemoveProductFromStock(m, 0))

	_, err := r.BuyProduct(0, 0, payment.Mint(10))
	assert.ErrorIs(t, err, ErrStockOut)
}

func TestBuyProduct_PriceOverflow(t *testing.T) {
	r, _ := newWithProduct(t, math.MaxUint64, 5)

	_, err := r.BuyProduct(0, 2, payment.Mint(math.MaxUint64))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, uint64(5), r.Products[0].Available)
}

func TestBuyProduct_NilPayment(t *testing.T) {
	r, _ := newWithProduct(t, 10, 5)

	_, err := r.BuyProduct(0, 1, nil)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestBuyProduct_SellOutClearsStockFlag(t *testing.T) {
	r, _ := newWithProduct(t, 10, 5)

	_, err := r.BuyProduct(0, 3, payment.Mint(30))
	require.NoError(t, err)
	_, err = r.BuyProduct(0, 2, payment.Mint(20))
	require.NoError(t, err)

	assert.Zero(t, r.Products[0].Available)
	assert.False(t, r.Products[0].InStock)
	assert.Equal(t, uint64(50), r.Balance.Value())
}

func TestBuyProduct_InvoiceAccountingIdentity(t *testing.T) {
	r, _ := newWithProduct(t, 3, 10)

	issued := 0
	for _, qty := range []uint64{1, 4, 2, 3} {
		invoices, err := r.BuyProduct(0, qty, payment.Mint(qty*3))
		require.NoError(t, err)
		issued += len(invoices)

		p := r.Products[0]
		assert.Equal(t, p.TotalSupply-p.Available, uint64(issued))
	}
	checkStockRules(t, r)
}

func TestBuyProduct_UniqueInvoiceIDs(t *testing.T) {
	r, _ := newWithProduct(t, 1, 50)

	invoices, err := r.BuyProduct(0, 50, payment.Mint(50))
	require.NoError(t, err)

	seen := make(map[string]struct{}, len(invoices))
	for _, inv := range invoices {
		seen[inv.ID.String()] = struct{}{}
	}
	assert.Len(t, seen, 50)
}

func TestWithdraw(t *testing.T) {
	tests := []struct {
		name    string
		amount  uint64
		wantErr error
		left    uint64
	}{
		{name: "partial", amount: 10, left: 20},
		{name: "full balance", amount: 30, left: 0},
		{name: "zero", amount: 0, wantErr: ErrInvalidAmount, left: 30},
		{name: "more than balance", amount: 31, wantErr: ErrInvalidAmount, left: 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, m := newWithProduct(t, 10, 5)
			_, err := r.BuyProduct(0, 3, payment.Mint(30))
			require.NoError(t, err)

			coin, err := r.Withdraw(m, tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, coin)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.amount, coin.Value())
			}
			assert.Equal(t, tt.left, r.Balance.Value())
		})
	}
}

func TestWithdraw_EmptyBalance(t *testing.T) {
	r, m := New()

	_, err := r.Withdraw(m, 1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}
