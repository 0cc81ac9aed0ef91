package service

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/account"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/metrics"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/models"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/payment"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/repository"
)

var (
	ErrInvalidMintAmount = errors.New("mint amount must be positive and within the faucet limit")
)

// WalletService exposes address holdings and the development faucet
type WalletService struct {
	wallets repository.WalletRepository
	maxMint uint64
	metrics metrics.Recorder
	log     *slog.Logger
}

// NewWalletService creates a new wallet service. maxMint caps a single faucet mint.
func NewWalletService(wallets repository.WalletRepository, maxMint uint64, recorder metrics.Recorder, log *slog.Logger) *WalletService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &WalletService{
		wallets: wallets,
		maxMint: maxMint,
		metrics: recorder,
		log:     log,
	}
}

// Mint issues a new coin to owner
func (s *WalletService) Mint(ctx context.Context, owner account.Address, amount uint64) (*models.Coin, error) {
	if owner.IsZero() {
		return nil, account.ErrInvalidAddress
	}
	if amount == 0 || amount > s.maxMint {
		return nil, ErrInvalidMintAmount
	}

	coin := payment.Mint(amount)
	if err := s.wallets.DepositCoin(ctx, owner, coin); err != nil {
		return nil, err
	}

	s.metrics.Minted(amount)
	s.log.Info("coin minted", "owner", owner, "amount", amount)
	return &models.Coin{ID: coin.ID(), Value: coin.Value()}, nil
}

// GetWallet returns the public view of what owner holds. Coin ids and
// management tokens are withheld; only totals and restaurant ids are listed.
func (s *WalletService) GetWallet(ctx context.Context, owner account.Address) (*models.WalletView, error) {
	snap, err := s.wallets.Snapshot(ctx, owner)
	if err != nil {
		return nil, err
	}

	view := &models.WalletView{
		Owner:              snap.Owner,
		CoinCount:          len(snap.Coins),
		Invoices:           snap.Invoices,
		ManagedRestaurants: make([]uuid.UUID, 0, len(snap.Managements)),
	}
	for _, c := range snap.Coins {
		if c.Value > math.MaxUint64-view.Balance {
			view.Balance = math.MaxUint64
			continue
		}
		view.Balance += c.Value
	}
	for _, m := range snap.Managements {
		view.ManagedRestaurants = append(view.ManagedRestaurants, m.RestaurantID)
	}
	return view, nil
}
