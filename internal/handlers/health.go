package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RestaurantLister is the part of the registry the health check reports on
type RestaurantLister interface {
	ListRestaurants(ctx context.Context) ([]uuid.UUID, error)
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	restaurants RestaurantLister
	logger      *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(restaurants RestaurantLister, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		restaurants: restaurants,
		logger:      logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version"`
	Restaurants int       `json:"restaurants"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ids, err := h.restaurants.ListRestaurants(r.Context())
	if err != nil {
		h.logger.Error("health check could not read the registry", "error", err)
		WriteJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "unavailable",
			Timestamp: time.Now().UTC(),
			Version:   "1.0.0",
		}, h.logger)
		return
	}

	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Version:     "1.0.0",
		Restaurants: len(ids),
	}, h.logger)
}
