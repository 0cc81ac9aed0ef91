package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/account"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/models"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/repository"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/restaurant"
	"github.com/Lixing-Zhang/restaurant-ledger/pkg/logger"
)

var errStoreDown = errors.New("store unavailable")

type failingCapabilities struct {
	*repository.InMemoryCapabilityRepository
}

func (failingCapabilities) Register(context.Context, restaurant.Management) error {
	return errStoreDown
}

type failingWallets struct {
	*repository.InMemoryWalletRepository
	offered []restaurant.Management
}

func (w *failingWallets) TransferManagement(_ context.Context, _ account.Address, m restaurant.Management) error {
	w.offered = append(w.offered, m)
	return errStoreDown
}

func TestRestaurantService_CreateRestaurantRollsBack(t *testing.T) {
	tests := []struct {
		name         string
		capabilities repository.CapabilityRepository
		wallets      repository.WalletRepository
	}{
		{
			name:         "capability registration fails",
			capabilities: failingCapabilities{repository.NewInMemoryCapabilityRepository(16)},
			wallets:      repository.NewInMemoryWalletRepository(),
		},
		{
			name:         "capability transfer fails",
			capabilities: repository.NewInMemoryCapabilityRepository(16),
			wallets:      &failingWallets{InMemoryWalletRepository: repository.NewInMemoryWalletRepository()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc := NewRestaurantService(
				repository.NewInMemoryRestaurantRepository(),
				tt.capabilities,
				tt.wallets,
				nil,
				logger.Discard(),
			)
			owner := account.NewRandomAddress()

			resp, err := svc.CreateRestaurant(ctx, owner)
			require.ErrorIs(t, err, errStoreDown)
			assert.Nil(t, resp)

			ids, err := svc.ListRestaurants(ctx)
			require.NoError(t, err)
			assert.Empty(t, ids, "no restaurant is left without a manager")

			snap, err := tt.wallets.Snapshot(ctx, owner)
			require.NoError(t, err)
			assert.Empty(t, snap.Managements)
		})
	}
}

func TestRestaurantService_CreateRestaurantRollbackRevokesCapability(t *testing.T) {
	ctx := context.Background()
	capabilities := repository.NewInMemoryCapabilityRepository(16)
	wallets := &failingWallets{InMemoryWalletRepository: repository.NewInMemoryWalletRepository()}
	svc := NewRestaurantService(
		repository.NewInMemoryRestaurantRepository(),
		capabilities,
		wallets,
		nil,
		logger.Discard(),
	)

	_, err := svc.CreateRestaurant(ctx, account.NewRandomAddress())
	require.Error(t, err)
	require.Len(t, wallets.offered, 1)

	m := wallets.offered[0]
	_, err = capabilities.Get(ctx, m.ID)
	assert.ErrorIs(t, err, repository.ErrManagementNotFound)

	_, err = svc.AddProduct(ctx, m.RestaurantID, m.ID, models.AddProductRequest{Price: 1, Supply: 1})
	assert.ErrorIs(t, err, restaurant.ErrNotManager)
}
