package models

import (
	"github.com/google/uuid"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/account"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/restaurant"
)

// CreateRestaurantRequest asks for a new restaurant whose capability goes to Recipient
type CreateRestaurantRequest struct {
	Recipient account.Address `json:"recipient"`
}

// CreateRestaurantResponse carries the new restaurant and the capability issued for it.
// It is the only response that ever carries the management token.
type CreateRestaurantResponse struct {
	RestaurantID uuid.UUID             `json:"restaurantId"`
	Management   restaurant.Management `json:"management"`
	Owner        account.Address       `json:"owner"`
}

// RestaurantView is the public state of a restaurant. The management
// capability is not part of it.
type RestaurantView struct {
	ID           uuid.UUID            `json:"id"`
	Balance      uint64               `json:"balance"`
	ProductCount uint64               `json:"productCount"`
	Products     []restaurant.Product `json:"products"`
}

// AddProductRequest describes a product to append to the menu
type AddProductRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       uint64 `json:"price"`
	Supply      uint64 `json:"supply"`
	Category    uint8  `json:"category"`
}

// AddProductResponse returns the id assigned to the new product
type AddProductResponse struct {
	ProductID uint64 `json:"productId"`
}

// ChangeCategoryRequest sets a product's category code
type ChangeCategoryRequest struct {
	Category uint8 `json:"category"`
}

// AvailabilityResponse answers check_product_availability
type AvailabilityResponse struct {
	ProductID uint64 `json:"productId"`
	Available uint64 `json:"available"`
}

// StockResponse answers check_product_stock
type StockResponse struct {
	ProductID uint64 `json:"productId"`
	InStock   bool   `json:"inStock"`
}
