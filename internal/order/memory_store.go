package order

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps live orders in a mutex-guarded map. Lifetime equals
// process lifetime; it is the default for single-instance deployments.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]*Order
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: make(map[string]*Order)}
}

// Get returns the order for id or ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}

	return o.Clone(), nil
}

// Put inserts or replaces the order.
func (s *MemoryStore) Put(ctx context.Context, o *Order) error {
	if o == nil || o.ID == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[o.ID] = o.Clone()
	return nil
}

// Delete removes the order if present.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.orders, id)
	return nil
}

// ListByRequester returns the user's live orders, oldest first.
func (s *MemoryStore) ListByRequester(ctx context.Context, requesterID int64) ([]*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Order, 0)
	for _, o := range s.orders {
		if o.RequesterID == requesterID {
			result = append(result, o.Clone())
		}
	}

	sortByCreated(result)
	return result, nil
}

// List returns every live order, oldest first.
func (s *MemoryStore) List(ctx context.Context) ([]*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Order, 0, len(s.orders))
	for _, o := range s.orders {
		result = append(result, o.Clone())
	}

	sortByCreated(result)
	return result, nil
}

func sortByCreated(orders []*Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
}
