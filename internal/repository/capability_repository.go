package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/google/uuid"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/restaurant"
)

var (
	ErrManagementNotFound = errors.New("management capability not found")
	ErrManagementExists   = errors.New("management capability already issued")
)

// CapabilityRepository indexes every Management capability ever issued.
type CapabilityRepository interface {
	Register(ctx context.Context, m restaurant.Management) error
	Get(ctx context.Context, id uuid.UUID) (restaurant.Management, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// InMemoryCapabilityRepository keeps issued capabilities in a map, fronted by a
// bloom filter so forged tokens are usually rejected without touching the map.
type InMemoryCapabilityRepository struct {
	mu          sync.RWMutex
	filter      *bloom.BloomFilter
	managements map[uuid.UUID]restaurant.Management
}

// NewInMemoryCapabilityRepository sizes the filter for expected capabilities at a 0.1% false positive rate
func NewInMemoryCapabilityRepository(expected uint) *InMemoryCapabilityRepository {
	if expected == 0 {
		expected = 1024
	}
	return &InMemoryCapabilityRepository{
		filter:      bloom.NewWithEstimates(expected, 0.001),
		managements: make(map[uuid.UUID]restaurant.Management),
	}
}

// Register records a newly issued capability. Capabilities are never reissued.
func (r *InMemoryCapabilityRepository) Register(ctx context.Context, m restaurant.Management) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.managements[m.ID]; exists {
		return ErrManagementExists
	}
	r.managements[m.ID] = m
	r.filter.Add(m.ID[:])
	return nil
}

// Get resolves a presented token to the capability it names
func (r *InMemoryCapabilityRepository) Get(ctx context.Context, id uuid.UUID) (restaurant.Management, error) {
	if err := ctx.Err(); err != nil {
		return restaurant.Management{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.filter.Test(id[:]) {
		return restaurant.Management{}, ErrManagementNotFound
	}

	m, exists := r.managements[id]
	if !exists {
		return restaurant.Management{}, ErrManagementNotFound
	}
	return m, nil
}

// Delete revokes a capability. The filter keeps its bits, so later lookups of
// id fall through to the map and miss there.
func (r *InMemoryCapabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.managements[id]; !exists {
		return ErrManagementNotFound
	}
	delete(r.managements, id)
	return nil
}
