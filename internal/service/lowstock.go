package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Shreevatsags/ecommerce-platform/internal/domain"
)

type StockChecker interface {
	CheckLowStock(ctx context.Context, productID string, threshold int) (domain.LowStockReport, error)
}

// LowStockMonitor is a stateless policy layer over the ledger's stock
// reads. It owns the alerting threshold so the ledger's contract stays
// free of it.
type LowStockMonitor struct {
	svc       StockChecker
	threshold int
}

func NewLowStockMonitor(svc StockChecker, threshold int) *LowStockMonitor {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}

	return &LowStockMonitor{
		svc:       svc,
		threshold: threshold,
	}
}

// Check evaluates a product against threshold, or against the monitor's
// default when threshold is not positive, and logs an alert for low stock.
func (m *LowStockMonitor) Check(ctx context.Context, productID string, threshold int) (domain.LowStockReport, error) {
	if threshold <= 0 {
		threshold = m.threshold
	}

	report, err := m.svc.CheckLowStock(ctx, productID, threshold)
	if err != nil {
		return domain.LowStockReport{}, fmt.Errorf("m.svc.CheckLowStock -> %w", err)
	}

	if report.LowStock {
		zap.L().Warn("low stock alert",
			zap.String("productID", productID),
			zap.Int("available", report.Available),
			zap.Int("threshold", report.Threshold))
	}

	return report, nil
}
