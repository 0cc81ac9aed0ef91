package restaurant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/payment"
)

// checkStockRules asserts product ids are dense and available never exceeds supply.
func checkStockRules(t *testing.T, r *Restaurant) {
	t.Helper()
	for i, p := range r.Products {
		assert.Equal(t, uint64(i), p.ID, "product ids are dense")
		assert.LessOrEqual(t, p.Available, p.TotalSupply, "available exceeds supply for product %d", i)
	}
	assert.Equal(t, uint64(len(r.Products)), r.ProductCount)
}

func newWithProduct(t *testing.T, price, supply uint64) (*Restaurant, Management) {
	t.Helper()
	r, m := New()
	id, err := r.AddProduct(m, "Margherita", "tomato, mozzarella", price, supply, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(0), id)
	return r, m
}

func TestNew(t *testing.T) {
	r, m := New()

	assert.Equal(t, r.ID, m.RestaurantID)
	assert.Equal(t, m.ID, r.ManagementID)
	assert.Zero(t, r.Balance.Value())
	assert.Empty(t, r.Products)
	assert.NoError(t, r.CheckManager(m))
}

func TestCheckManager_OtherRestaurant(t *testing.T) {
	r, _ := New()
	_, other := New()

	assert.ErrorIs(t, r.CheckManager(other), ErrNotManager)
}

func TestAddProduct(t *testing.T) {
	tests := []struct {
		name    string
		price   uint64
		supply  uint64
		wantErr error
	}{
		{name: "valid", price: 10, supply: 5},
		{name: "zero price", price: 0, supply: 5, wantErr: ErrInvalidPrice},
		{name: "zero supply", price: 10, supply: 0, wantErr: ErrInvalidSupply},
		{name: "both zero reports price first", price: 0, supply: 0, wantErr: ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, m := New()
			id, err := r.AddProduct(m, "Caesar Salad", "romaine", tt.price, tt.supply, 2)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, r.Products)
				assert.Zero(t, r.ProductCount)
				return
			}

			require.NoError(t, err)
			p := r.Products[id]
			assert.Equal(t, tt.supply, p.TotalSupply)
			assert.Equal(t, tt.supply, p.Available)
			assert.True(t, p.InStock)
			assert.Equal(t, uint8(2), p.Category)
			checkStockRules(t, r)
		})
	}
}

func TestAddProduct_AppendsDenseIDs(t *testing.T) {
	r, m := New()
	for want := uint64(0); want < 4; want++ {
		id, err := r.AddProduct(m, "item", "", 1, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}
	checkStockRules(t, r)
}

func TestManagementGatedOperations_RejectForeignCapability(t *testing.T) {
	r, _ := newWithProduct(t, 10, 5)
	_, foreign := New()
	before := r.Clone()

	_, err := r.AddProduct(foreign, "x", "y", 1, 1, 0)
	assert.ErrorIs(t, err, ErrNotManager)
	assert.ErrorIs(t, r.RemoveProductFromStock(foreign, 0), ErrNotManager)
	assert.ErrorIs(t, r.RestockProduct(foreign, 0), ErrNotManager)
	assert.ErrorIs(t, r.ChangeProductCategory(foreign, 0, 9), ErrNotManager)
	_, err = r.Withdraw(foreign, 1)
	assert.ErrorIs(t, err, ErrNotManager)

	assert.Equal(t, before, r)
}

func TestCapabilityCheckedBeforeID(t *testing.T) {
	r, _ := New()
	_, foreign := New()

	assert.ErrorIs(t, r.RemoveProductFromStock(foreign, 42), ErrNotManager)
}

func TestInventory_InvalidID(t *testing.T) {
	r, m := newWithProduct(t, 10, 5)

	assert.ErrorIs(t, r.RemoveProductFromStock(m, 1), ErrInvalidID)
	assert.ErrorIs(t, r.RestockProduct(m, 1), ErrInvalidID)
	assert.ErrorIs(t, r.ChangeProductCategory(m, 1, 3), ErrInvalidID)
}

func TestRemoveAndRestock(t *testing.T) {
	r, m := newWithProduct(t, 10, 5)

	require.NoError(t, r.RemoveProductFromStock(m, 0))
	assert.False(t, r.Products[0].InStock)
	assert.Equal(t, uint64(5), r.Products[0].Available, "removal keeps availability")

	require.NoError(t, r.RestockProduct(m, 0))
	assert.True(t, r.Products[0].InStock)
}

func TestRestock_SoldOutProductIsFlaggedInStock(t *testing.T) {
	r, m := newWithProduct(t, 10, 2)

	_, err := r.BuyProduct(0, 2, payment.Mint(20))
	require.NoError(t, err)
	require.False(t, r.Products[0].InStock)

	require.NoError(t, r.RestockProduct(m, 0))
	assert.True(t, r.Products[0].InStock)
	assert.Zero(t, r.Products[0].Available)

	_, err = r.BuyProduct(0, 1, payment.Mint(10))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestChangeProductCategory(t *testing.T) {
	r, m := newWithProduct(t, 10, 5)

	require.NoError(t, r.ChangeProductCategory(m, 0, 255))
	assert.Equal(t, uint8(255), r.Products[0].Category)
}

func TestQuerySurface(t *testing.T) {
	r, m := newWithProduct(t, 10, 5)

	p, err := r.Product(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), CheckProductAvailability(p))
	assert.True(t, CheckProductStock(p))

	require.NoError(t, r.RemoveProductFromStock(m, 0))
	p, _ = r.Product(0)
	assert.False(t, CheckProductStock(p))

	_, err = r.Product(7)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestClone_IsIndependent(t *testing.T) {
	r, m := newWithProduct(t, 10, 5)
	c := r.Clone()

	require.NoError(t, c.RemoveProductFromStock(m, 0))
	_, err := c.AddProduct(m, "more", "", 1, 1, 0)
	require.NoError(t, err)

	assert.True(t, r.Products[0].InStock)
	assert.Len(t, r.Products, 1)
}
