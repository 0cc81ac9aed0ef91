package restaurant

import "errors"

var (
	ErrNotManager          = errors.New("management capability does not belong to this restaurant")
	ErrInvalidPrice        = errors.New("price must be positive")
	ErrInvalidSupply       = errors.New("supply must be positive")
	ErrInvalidID           = errors.New("product id out of range")
	ErrInvalidQuantity     = errors.New("quantity exceeds available stock")
	ErrInsufficientBalance = errors.New("payment does not cover total price")
	ErrStockOut            = errors.New("product is out of stock")
	ErrInvalidAmount       = errors.New("amount must be positive and not exceed the balance")
)
