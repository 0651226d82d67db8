package inmem

import (
	"context"
	"sync"

	"github.com/Shreevatsags/ecommerce-platform/internal/repository"
)

// StockStore is a map-backed durable stock store. Mutations on a product
// are atomic under the store mutex.
type StockStore struct {
	mu     sync.Mutex
	totals map[string]int
}

func NewStockStore() *StockStore {
	return &StockStore{
		totals: make(map[string]int),
	}
}

func (s *StockStore) SetTotal(_ context.Context, productID string, quantity int) error {
	if quantity < 0 {
		return repository.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.totals[productID] = quantity

	return nil
}

func (s *StockStore) AdjustTotal(_ context.Context, productID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.totals[productID]+delta < 0 {
		return repository.ErrInsufficientStock
	}

	s.totals[productID] += delta

	return nil
}

func (s *StockStore) GetTotal(_ context.Context, productID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.totals[productID], nil
}
