package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/account"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/payment"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/restaurant"
)

var (
	ErrCoinNotFound = errors.New("coin not found")
	ErrEmptyCoin    = errors.New("coin holds no value")
)

// WalletRepository records which address owns which coins, invoices and
// capabilities. Moving an object to an address is the transfer primitive;
// taking a coin removes it from its owner so it cannot be spent twice.
type WalletRepository interface {
	DepositCoin(ctx context.Context, owner account.Address, coin *payment.Coin) error
	TakeCoin(ctx context.Context, owner account.Address, coinID uuid.UUID) (*payment.Coin, error)
	TransferInvoices(ctx context.Context, owner account.Address, invoices []restaurant.Invoice) error
	TransferManagement(ctx context.Context, owner account.Address, m restaurant.Management) error
	Snapshot(ctx context.Context, owner account.Address) (WalletSnapshot, error)
}

// CoinHolding is a read-only view of an owned coin
type CoinHolding struct {
	ID    uuid.UUID `json:"id"`
	Value uint64    `json:"value"`
}

// WalletSnapshot is everything an address owns at one point in time
type WalletSnapshot struct {
	Owner       account.Address         `json:"owner"`
	Coins       []CoinHolding           `json:"coins"`
	Invoices    []restaurant.Invoice    `json:"invoices"`
	Managements []restaurant.Management `json:"managements"`
}

type wallet struct {
	coins       map[uuid.UUID]*payment.Coin
	invoices    []restaurant.Invoice
	managements []restaurant.Management
}

// InMemoryWalletRepository implements WalletRepository with in-memory storage
type InMemoryWalletRepository struct {
	mu      sync.Mutex
	wallets map[account.Address]*wallet
}

// NewInMemoryWalletRepository creates an empty ownership registry
func NewInMemoryWalletRepository() *InMemoryWalletRepository {
	return &InMemoryWalletRepository{
		wallets: make(map[account.Address]*wallet),
	}
}

// DepositCoin hands ownership of coin to owner
func (r *InMemoryWalletRepository) DepositCoin(ctx context.Context, owner account.Address, coin *payment.Coin) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if coin == nil || coin.Value() == 0 {
		return ErrEmptyCoin
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.walletFor(owner).coins[coin.ID()] = coin
	return nil
}

// TakeCoin removes a coin from owner and returns it to the caller
func (r *InMemoryWalletRepository) TakeCoin(ctx context.Context, owner account.Address, coinID uuid.UUID) (*payment.Coin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	w, exists := r.wallets[owner]
	if !exists {
		return nil, ErrCoinNotFound
	}
	coin, exists := w.coins[coinID]
	if !exists {
		return nil, ErrCoinNotFound
	}
	delete(w.coins, coinID)
	return coin, nil
}

// TransferInvoices hands ownership of invoices to owner
func (r *InMemoryWalletRepository) TransferInvoices(ctx context.Context, owner account.Address, invoices []restaurant.Invoice) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	w := r.walletFor(owner)
	w.invoices = append(w.invoices, invoices...)
	return nil
}

// TransferManagement hands a capability to owner
func (r *InMemoryWalletRepository) TransferManagement(ctx context.Context, owner account.Address, m restaurant.Management) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	w := r.walletFor(owner)
	w.managements = append(w.managements, m)
	return nil
}

// Snapshot copies out what owner holds. Unknown addresses hold nothing.
func (r *InMemoryWalletRepository) Snapshot(ctx context.Context, owner account.Address) (WalletSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return WalletSnapshot{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snap := WalletSnapshot{
		Owner:       owner,
		Coins:       make([]CoinHolding, 0),
		Invoices:    make([]restaurant.Invoice, 0),
		Managements: make([]restaurant.Management, 0),
	}

	w, exists := r.wallets[owner]
	if !exists {
		return snap, nil
	}

	for _, coin := range w.coins {
		snap.Coins = append(snap.Coins, CoinHolding{ID: coin.ID(), Value: coin.Value()})
	}
	sort.Slice(snap.Coins, func(i, j int) bool {
		return snap.Coins[i].ID.String() < snap.Coins[j].ID.String()
	})
	snap.Invoices = append(snap.Invoices, w.invoices...)
	snap.Managements = append(snap.Managements, w.managements...)

	return snap, nil
}

// walletFor returns owner's wallet, creating it. Caller holds r.mu.
func (r *InMemoryWalletRepository) walletFor(owner account.Address) *wallet {
	w, exists := r.wallets[owner]
	if !exists {
		w = &wallet{coins: make(map[uuid.UUID]*payment.Coin)}
		r.wallets[owner] = w
	}
	return w
}
