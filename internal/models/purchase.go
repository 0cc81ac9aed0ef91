package models

import (
	"github.com/google/uuid"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/account"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/restaurant"
)

// BuyProductRequest pays for Quantity units with the payer's coin.
// Invoices go to Recipient, which may differ from Payer.
type BuyProductRequest struct {
	Quantity  uint64          `json:"quantity"`
	Payer     account.Address `json:"payer"`
	CoinID    uuid.UUID       `json:"coinId"`
	Recipient account.Address `json:"recipient"`
}

// Coin is a view of an owned coin
type Coin struct {
	ID    uuid.UUID `json:"id"`
	Value uint64    `json:"value"`
}

// PurchaseReceipt is the outcome of a settled purchase
type PurchaseReceipt struct {
	RestaurantID uuid.UUID            `json:"restaurantId"`
	ProductID    uint64               `json:"productId"`
	Quantity     uint64               `json:"quantity"`
	TotalPrice   uint64               `json:"totalPrice"`
	Recipient    account.Address      `json:"recipient"`
	Invoices     []restaurant.Invoice `json:"invoices"`
	// Change is what is left of the payment coin, returned to the payer.
	Change *Coin `json:"change,omitempty"`
}

// WithdrawRequest moves Amount from the restaurant balance to Recipient
type WithdrawRequest struct {
	Amount    uint64          `json:"amount"`
	Recipient account.Address `json:"recipient"`
}

// WithdrawResponse identifies the coin handed to the recipient
type WithdrawResponse struct {
	Coin      Coin            `json:"coin"`
	Recipient account.Address `json:"recipient"`
}

// MintRequest asks the faucet for a coin
type MintRequest struct {
	Amount uint64 `json:"amount"`
}
