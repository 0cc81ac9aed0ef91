package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/middleware"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/models"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/service"
)

// RestaurantHandler handles restaurant-related HTTP requests
type RestaurantHandler struct {
	service *service.RestaurantService
	log     *slog.Logger
}

// NewRestaurantHandler creates a new restaurant handler
func NewRestaurantHandler(service *service.RestaurantService, log *slog.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		service: service,
		log:     log,
	}
}

// CreateRestaurant handles POST /api/restaurants
func (h *RestaurantHandler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRestaurantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode create restaurant request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	resp, err := h.service.CreateRestaurant(r.Context(), req.Recipient)
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusCreated, resp, h.log)
}

// ListRestaurants handles GET /api/restaurants
func (h *RestaurantHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.ListRestaurants(r.Context())
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}

	WriteJSON(w, http.StatusOK, ids, h.log)
}

// GetRestaurant handles GET /api/restaurants/{restaurantId}
func (h *RestaurantHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := restaurantIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	view, err := h.service.GetRestaurant(r.Context(), restaurantID)
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, view, h.log)
}

// ListProducts handles GET /api/restaurants/{restaurantId}/products
func (h *RestaurantHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := restaurantIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	products, err := h.service.ListProducts(r.Context(), restaurantID)
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, products, h.log)
}

// GetProduct handles GET /api/restaurants/{restaurantId}/products/{productId}
// - 200: successful operation
// - 400: Invalid ID supplied
// - 404: restaurant or product not found
func (h *RestaurantHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	restaurantID, productID, ok := h.productPath(w, r)
	if !ok {
		return
	}

	product, err := h.service.GetProduct(r.Context(), restaurantID, productID)
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, product, h.log)
}

// AddProduct handles POST /api/restaurants/{restaurantId}/products
func (h *RestaurantHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := restaurantIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	var req models.AddProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode add product request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	productID, err := h.service.AddProduct(r.Context(), restaurantID, h.token(r), req)
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusCreated, models.AddProductResponse{ProductID: productID}, h.log)
}

// RemoveProductFromStock handles POST /api/restaurants/{restaurantId}/products/{productId}/remove
func (h *RestaurantHandler) RemoveProductFromStock(w http.ResponseWriter, r *http.Request) {
	h.stockUpdate(w, r, h.service.RemoveProductFromStock)
}

// RestockProduct handles POST /api/restaurants/{restaurantId}/products/{productId}/restock
func (h *RestaurantHandler) RestockProduct(w http.ResponseWriter, r *http.Request) {
	h.stockUpdate(w, r, h.service.RestockProduct)
}

func (h *RestaurantHandler) stockUpdate(
	w http.ResponseWriter,
	r *http.Request,
	update func(ctx context.Context, restaurantID, token uuid.UUID, productID uint64) error,
) {
	restaurantID, productID, ok := h.productPath(w, r)
	if !ok {
		return
	}

	if err := update(r.Context(), restaurantID, h.token(r), productID); err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	h.writeStock(w, r, restaurantID, productID)
}

// ChangeProductCategory handles PUT /api/restaurants/{restaurantId}/products/{productId}/category
func (h *RestaurantHandler) ChangeProductCategory(w http.ResponseWriter, r *http.Request) {
	restaurantID, productID, ok := h.productPath(w, r)
	if !ok {
		return
	}

	var req models.ChangeCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode change category request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	if err := h.service.ChangeProductCategory(r.Context(), restaurantID, h.token(r), productID, req.Category); err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	product, err := h.service.GetProduct(r.Context(), restaurantID, productID)
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}
	WriteJSON(w, http.StatusOK, product, h.log)
}

// BuyProduct handles POST /api/restaurants/{restaurantId}/products/{productId}/buy
func (h *RestaurantHandler) BuyProduct(w http.ResponseWriter, r *http.Request) {
	restaurantID, productID, ok := h.productPath(w, r)
	if !ok {
		return
	}

	var req models.BuyProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode buy request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	receipt, err := h.service.BuyProduct(r.Context(), restaurantID, productID, req)
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, receipt, h.log)
}

// Withdraw handles POST /api/restaurants/{restaurantId}/withdraw
func (h *RestaurantHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := restaurantIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	var req models.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode withdraw request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	resp, err := h.service.TransferFromRestaurant(r.Context(), restaurantID, h.token(r), req)
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, resp, h.log)
}

// CheckAvailability handles GET /api/restaurants/{restaurantId}/products/{productId}/availability
func (h *RestaurantHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	restaurantID, productID, ok := h.productPath(w, r)
	if !ok {
		return
	}

	available, err := h.service.CheckProductAvailability(r.Context(), restaurantID, productID)
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, models.AvailabilityResponse{ProductID: productID, Available: available}, h.log)
}

// CheckStock handles GET /api/restaurants/{restaurantId}/products/{productId}/stock
func (h *RestaurantHandler) CheckStock(w http.ResponseWriter, r *http.Request) {
	restaurantID, productID, ok := h.productPath(w, r)
	if !ok {
		return
	}
	h.writeStock(w, r, restaurantID, productID)
}

func (h *RestaurantHandler) writeStock(w http.ResponseWriter, r *http.Request, restaurantID uuid.UUID, productID uint64) {
	inStock, err := h.service.CheckProductStock(r.Context(), restaurantID, productID)
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, models.StockResponse{ProductID: productID, InStock: inStock}, h.log)
}

// productPath parses both path ids, writing a 400 when either is malformed
func (h *RestaurantHandler) productPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, uint64, bool) {
	restaurantID, err := restaurantIDParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return uuid.Nil, 0, false
	}

	productID, err := productIDParam(r)
	if err != nil {
		h.log.Warn("invalid product ID format", "productId", chi.URLParam(r, "productId"))
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return uuid.Nil, 0, false
	}

	return restaurantID, productID, true
}

// token returns the capability presented with the request. Routes that need
// one sit behind middleware.ManagementToken; a missing token resolves to no
// capability at all.
func (h *RestaurantHandler) token(r *http.Request) uuid.UUID {
	token, _ := middleware.TokenFromContext(r.Context())
	return token
}
