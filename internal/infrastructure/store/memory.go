package store

import (
	"context"
	"sync"

	"github.com/Victor-armando18/pricing-scheme/internal/domain"
	pkgerrors "github.com/Victor-armando18/pricing-scheme/pkg/errors"
)

// MemoryStore keeps orders in process. Stored orders are copies, so callers
// never share line slices with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{orders: map[string]domain.Order{}}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "order %s not found", id)
	}
	out := order.Clone()
	return &out, nil
}

func (s *MemoryStore) Save(ctx context.Context, order *domain.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if order == nil || order.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[order.ID] = order.Clone()
	return nil
}
