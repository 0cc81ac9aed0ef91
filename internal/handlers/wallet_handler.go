package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/models"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/service"
)

// WalletHandler serves address holdings and the faucet
type WalletHandler struct {
	service *service.WalletService
	log     *slog.Logger
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(service *service.WalletService, log *slog.Logger) *WalletHandler {
	return &WalletHandler{
		service: service,
		log:     log,
	}
}

// GetWallet handles GET /api/wallets/{address}
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	owner, err := addressParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	view, err := h.service.GetWallet(r.Context(), owner)
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusOK, view, h.log)
}

// Mint handles POST /api/wallets/{address}/mint
func (h *WalletHandler) Mint(w http.ResponseWriter, r *http.Request) {
	owner, err := addressParam(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	var req models.MintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode mint request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	coin, err := h.service.Mint(r.Context(), owner, req.Amount)
	if err != nil {
		writeServiceError(w, err, h.log)
		return
	}

	WriteJSON(w, http.StatusCreated, coin, h.log)
}
