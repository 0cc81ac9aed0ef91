package restaurant

import (
	"fmt"
	"math/bits"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/payment"
)

// BuyProduct sells quantity units of a product.
//
// Exactly price*quantity is split out of coin into the restaurant balance;
// whatever is left stays in coin for the caller. One Invoice per unit is
// returned for the caller to hand to the recipient.
//
// Checks run in a fixed order: id, quantity, payment, stock flag.
func (r *Restaurant) BuyProduct(productID, quantity uint64, coin *payment.Coin) ([]Invoice, error) {
	if !r.validID(productID) {
		return nil, ErrInvalidID
	}

	p := &r.Products[productID]
	if quantity > p.Available {
		return nil, ErrInvalidQuantity
	}

	hi, total := bits.Mul64(p.Price, quantity)
	if hi != 0 || coin == nil || coin.Value() < total {
		return nil, ErrInsufficientBalance
	}

	if !p.InStock {
		return nil, ErrStockOut
	}

	if !r.Balance.CanJoin(total) {
		return nil, fmt.Errorf("crediting restaurant balance: %w", payment.ErrOverflow)
	}

	paid, err := coin.Split(total)
	if err != nil {
		return nil, err
	}
	if err := r.Balance.Join(paid); err != nil {
		// cannot happen after CanJoin
		_ = coin.Join(paid)
		return nil, err
	}

	p.Available -= quantity

	invoices := make([]Invoice, quantity)
	for i := range invoices {
		invoices[i] = Invoice{
			ID:           uuid.New(),
			RestaurantID: r.ID,
			ProductID:    productID,
		}
	}

	if p.Available == 0 {
		p.InStock = false
	}

	return invoices, nil
}
