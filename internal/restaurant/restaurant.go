// Package restaurant holds the state-transition rules for a restaurant's
// inventory, purchases and treasury.
//
// Everything here is sequential and lock-free. Callers must give each call
// exclusive access to the Restaurant for its whole duration; see
// repository.RestaurantRepository for the host side of that contract.
// Every operation checks all of its preconditions before it mutates anything,
// so an error return always means the Restaurant is unchanged.
package restaurant

import (
	"github.com/google/uuid"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/payment"
)

// Restaurant is the shared object buyers and the manager operate on.
type Restaurant struct {
	ID           uuid.UUID
	ManagementID uuid.UUID
	Balance      payment.Balance
	// Products is append-only; a product's ID is its index.
	Products     []Product
	ProductCount uint64
}

// Management is the capability that authorizes mutation of one Restaurant.
type Management struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurantId"`
}

// Product is a menu item and its stock.
type Product struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       uint64 `json:"price"`
	InStock     bool   `json:"inStock"`
	Category    uint8  `json:"category"`
	TotalSupply uint64 `json:"totalSupply"`
	Available   uint64 `json:"available"`
}

// Invoice proves one unit of a product was bought.
type Invoice struct {
	ID           uuid.UUID `json:"id"`
	RestaurantID uuid.UUID `json:"restaurantId"`
	ProductID    uint64    `json:"productId"`
}

// New creates a restaurant paired with its management capability.
func New() (*Restaurant, Management) {
	r := &Restaurant{
		ID:       uuid.New(),
		Products: make([]Product, 0),
	}
	m := Management{
		ID:           uuid.New(),
		RestaurantID: r.ID,
	}
	r.ManagementID = m.ID
	return r, m
}

// Clone returns a deep copy for transactional updates.
func (r *Restaurant) Clone() *Restaurant {
	c := *r
	c.Products = make([]Product, len(r.Products))
	copy(c.Products, r.Products)
	return &c
}

// Product returns a copy of the product with the given id
func (r *Restaurant) Product(id uint64) (Product, error) {
	if !r.validID(id) {
		return Product{}, ErrInvalidID
	}
	return r.Products[id], nil
}

func (r *Restaurant) validID(id uint64) bool {
	return id < uint64(len(r.Products))
}
