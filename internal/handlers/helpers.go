package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/account"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/payment"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/repository"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/restaurant"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/service"
)

var (
	errInvalidRestaurantID = errors.New("invalid restaurant ID supplied")
	errInvalidProductID    = errors.New("invalid product ID supplied")
)

// statusFor maps a service error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, restaurant.ErrNotManager):
		return http.StatusForbidden
	case errors.Is(err, restaurant.ErrInvalidID),
		errors.Is(err, repository.ErrRestaurantNotFound),
		errors.Is(err, repository.ErrCoinNotFound):
		return http.StatusNotFound
	case errors.Is(err, restaurant.ErrStockOut),
		errors.Is(err, payment.ErrOverflow):
		return http.StatusConflict
	case errors.Is(err, restaurant.ErrInvalidPrice),
		errors.Is(err, restaurant.ErrInvalidSupply),
		errors.Is(err, restaurant.ErrInvalidQuantity),
		errors.Is(err, restaurant.ErrInsufficientBalance),
		errors.Is(err, restaurant.ErrInvalidAmount),
		errors.Is(err, repository.ErrEmptyCoin),
		errors.Is(err, account.ErrInvalidAddress),
		errors.Is(err, service.ErrInvalidMintAmount):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes err with the status it maps to. Internal errors are
// logged and never echoed back to the client.
func writeServiceError(w http.ResponseWriter, err error, log *slog.Logger) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
		WriteError(w, status, "Internal server error", log)
		return
	}
	WriteError(w, status, err.Error(), log)
}

func restaurantIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "restaurantId"))
	if err != nil {
		return uuid.Nil, errInvalidRestaurantID
	}
	return id, nil
}

// productIDParam parses {productId}. Ids are unsigned integers.
func productIDParam(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		return 0, errInvalidProductID
	}
	return id, nil
}

func addressParam(r *http.Request) (account.Address, error) {
	return account.ParseAddress(chi.URLParam(r, "address"))
}
