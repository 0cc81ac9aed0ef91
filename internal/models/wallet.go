package models

import (
	"github.com/google/uuid"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/account"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/restaurant"
)

// WalletView is what anyone may see of an address.
// Coin ids and management tokens are bearer secrets: whoever presents one can
// spend or manage with it, so they are only handed to the caller that
// receives them (mint, purchase change, withdrawal, restaurant creation).
type WalletView struct {
	Owner              account.Address      `json:"owner"`
	Balance            uint64               `json:"balance"`
	CoinCount          int                  `json:"coinCount"`
	Invoices           []restaurant.Invoice `json:"invoices"`
	ManagedRestaurants []uuid.UUID          `json:"managedRestaurants"`
}
