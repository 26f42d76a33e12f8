package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/utilibill/backend/internal/domain/billing"
)

// InMemoryCartStore keeps carts in process memory. Suitable for single-node
// deployments and tests; carts do not survive a restart.
type InMemoryCartStore struct {
	mu    sync.RWMutex
	carts map[uuid.UUID][]byte
}

// NewInMemoryCartStore creates an empty in-memory cart store
func NewInMemoryCartStore() *InMemoryCartStore {
	return &InMemoryCartStore{carts: make(map[uuid.UUID][]byte)}
}

// Get returns the operator's cart; a missing entry yields an empty cart
func (s *InMemoryCartStore) Get(_ context.Context, operatorID uuid.UUID) (*billing.Cart, error) {
	s.mu.RLock()
	data, ok := s.carts[operatorID]
	s.mu.RUnlock()

	if !ok {
		return &billing.Cart{}, nil
	}
	var cart billing.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &cart, nil
}

// Put stores the operator's cart. Carts are stored serialized so callers
// cannot mutate a stored cart through a retained pointer.
func (s *InMemoryCartStore) Put(_ context.Context, operatorID uuid.UUID, cart *billing.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	s.mu.Lock()
	s.carts[operatorID] = data
	s.mu.Unlock()
	return nil
}

// Delete removes the operator's cart
func (s *InMemoryCartStore) Delete(_ context.Context, operatorID uuid.UUID) error {
	s.mu.Lock()
	delete(s.carts, operatorID)
	s.mu.Unlock()
	return nil
}
