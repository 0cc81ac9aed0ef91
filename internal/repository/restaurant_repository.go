package repository

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/restaurant"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrRestaurantExists   = errors.New("restaurant already registered")
)

// RestaurantRepository is the shared-object registry for restaurants.
// It serializes every access to a given restaurant.
type RestaurantRepository interface {
	Create(ctx context.Context, r *restaurant.Restaurant) error
	// Update runs fn with exclusive access to the restaurant. Changes made by fn
	// become visible only if fn returns nil.
	Update(ctx context.Context, id uuid.UUID, fn func(r *restaurant.Restaurant) error) error
	// View runs fn with a consistent read of the restaurant. fn must not modify it.
	View(ctx context.Context, id uuid.UUID, fn func(r *restaurant.Restaurant) error) error
	List(ctx context.Context) ([]uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// restaurantEntry guards one restaurant. The mutex is held for the whole of
// every read-modify-write.
type restaurantEntry struct {
	mu    sync.Mutex
	state *restaurant.Restaurant
}

// InMemoryRestaurantRepository implements RestaurantRepository with in-memory storage
type InMemoryRestaurantRepository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*restaurantEntry
}

// NewInMemoryRestaurantRepository creates an empty restaurant registry
func NewInMemoryRestaurantRepository() *InMemoryRestaurantRepository {
	return &InMemoryRestaurantRepository{
		entries: make(map[uuid.UUID]*restaurantEntry),
	}
}

// Create registers a new restaurant
func (r *InMemoryRestaurantRepository) Create(ctx context.Context, rest *restaurant.Restaurant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[rest.ID]; exists {
		return ErrRestaurantExists
	}
	r.entries[rest.ID] = &restaurantEntry{state: rest.Clone()}
	return nil
}

// Update applies fn to a copy of the restaurant and commits the copy on success
func (r *InMemoryRestaurantRepository) Update(ctx context.Context, id uuid.UUID, fn func(*restaurant.Restaurant) error) error {
	entry, err := r.entry(ctx, id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	working := entry.state.Clone()
	if err := fn(working); err != nil {
		return err
	}
	entry.state = working
	return nil
}

// View runs fn against the committed state under the restaurant's lock
func (r *InMemoryRestaurantRepository) View(ctx context.Context, id uuid.UUID, fn func(*restaurant.Restaurant) error) error {
	entry, err := r.entry(ctx, id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return fn(entry.state)
}

// List returns the ids of all registered restaurants, sorted
func (r *InMemoryRestaurantRepository) List(ctx context.Context) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	ids := make([]uuid.UUID, 0, len(r.entries))
	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids, nil
}

// Delete unregisters a restaurant. It waits for any in-flight access to finish.
func (r *InMemoryRestaurantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	entry, err := r.entry(ctx, id)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
	return nil
}

func (r *InMemoryRestaurantRepository) entry(ctx context.Context, id uuid.UUID) (*restaurantEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	entry, exists := r.entries[id]
	r.mu.RUnlock()

	if !exists {
		return nil, ErrRestaurantNotFound
	}
	return entry, nil
}
