package repository

import (
	"context"
	"fmt"

	"github.com/Shreevatsags/ecommerce-platform/internal/repository/dao"
)

var (
	ErrInsufficientStock = dao.ErrInsufficientStock
	ErrInvalidQuantity   = dao.ErrInvalidQuantity
)

type StockDAO interface {
	SetTotal(ctx context.Context, productID string, quantity int) error
	AdjustTotal(ctx context.Context, productID string, delta int) error
	GetTotal(ctx context.Context, productID string) (int, error)
}

// StockRepository is the durable stock store. It owns the authoritative
// total unit count per product.
type StockRepository struct {
	dao StockDAO
}

func NewStockRepository(dao StockDAO) *StockRepository {
	return &StockRepository{
		dao: dao,
	}
}

func (r *StockRepository) SetTotal(ctx context.Context, productID string, quantity int) error {
	if err := r.dao.SetTotal(ctx, productID, quantity); err != nil {
		return fmt.Errorf("r.dao.SetTotal -> %w", err)
	}

	return nil
}

func (r *StockRepository) AdjustTotal(ctx context.Context, productID string, delta int) error {
	if err := r.dao.AdjustTotal(ctx, productID, delta); err != nil {
		return fmt.Errorf("r.dao.AdjustTotal -> %w", err)
	}

	return nil
}

func (r *StockRepository) GetTotal(ctx context.Context, productID string) (int, error) {
	total, err := r.dao.GetTotal(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.GetTotal -> %w", err)
	}

	return total, nil
}
