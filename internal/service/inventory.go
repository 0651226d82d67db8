package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Shreevatsags/ecommerce-platform/internal/domain"
	"github.com/Shreevatsags/ecommerce-platform/internal/pkg/keymutex"
	"github.com/Shreevatsags/ecommerce-platform/internal/repository"
)

const (
	DefaultReservationTTL    = 600 * time.Second
	DefaultLowStockThreshold = 10
)

var (
	ErrInvalidQuantity     = repository.ErrInvalidQuantity
	ErrReservationNotFound = errors.New("reservation not found or expired")
	ErrStoreUnavailable    = errors.New("store unavailable")
)

// InsufficientStockError reports a request exceeding what is available,
// carrying both numbers for caller display.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock: available %v, requested %v", e.Available, e.Requested)
}

// QuantityMismatchError reports a confirm whose quantity differs from the
// held quantity.
type QuantityMismatchError struct {
	Held      int
	Requested int
}

func (e *QuantityMismatchError) Error() string {
	return fmt.Sprintf("reserved quantity does not match: held %v, requested %v", e.Held, e.Requested)
}

// StockStore holds the authoritative total unit count per product.
// AdjustTotal must be atomic with respect to concurrent adjustments on
// the same product and fail with repository.ErrInsufficientStock rather
// than drive the total negative.
type StockStore interface {
	SetTotal(ctx context.Context, productID string, quantity int) error
	AdjustTotal(ctx context.Context, productID string, delta int) error
	GetTotal(ctx context.Context, productID string) (int, error)
}

// HoldStore keeps active holds with time-based expiry. Put replaces any
// existing hold under the same key and restarts its timer. Get and Remove
// report repository.ErrHoldNotFound for any absent hold, with no
// distinction between never-set, removed and expired.
type HoldStore interface {
	Put(ctx context.Context, productID, holderID string, quantity int, ttl time.Duration) error
	Get(ctx context.Context, productID, holderID string) (int, error)
	Remove(ctx context.Context, productID, holderID string) (int, error)
	SumByProduct(ctx context.Context, productID string) (int, error)
}

// InventoryService is the reservation ledger. It orchestrates the stock
// and hold stores to answer availability queries and drive the
// reserve/confirm/cancel lifecycle without overselling.
//
// Reserve's availability check and hold write happen under a per-product
// mutex; so do Confirm's hold read and stock decrement. A plain
// check-then-write would let concurrent reservers jointly exceed the
// total.
type InventoryService struct {
	stock StockStore
	holds HoldStore
	locks *keymutex.KeyMutex
	ttl   time.Duration
}

func NewInventoryService(stock StockStore, holds HoldStore, reservationTTL time.Duration) *InventoryService {
	if reservationTTL <= 0 {
		reservationTTL = DefaultReservationTTL
	}

	return &InventoryService{
		stock: stock,
		holds: holds,
		locks: keymutex.New(),
		ttl:   reservationTTL,
	}
}

// InitializeStock sets the absolute unit count for a product. Repeated
// calls overwrite; active holds are not touched.
func (s *InventoryService) InitializeStock(ctx context.Context, productID string, quantity int) (domain.StockInfo, error) {
	if quantity < 0 {
		return domain.StockInfo{}, ErrInvalidQuantity
	}

	s.locks.Lock(productID)
	defer s.locks.Unlock(productID)

	if err := s.stock.SetTotal(ctx, productID, quantity); err != nil {
		return domain.StockInfo{}, wrapStoreErr("s.stock.SetTotal", err)
	}

	zap.L().Info("initialized stock",
		zap.String("productID", productID),
		zap.Int("quantity", quantity))

	return s.getStock(ctx, productID)
}

// GetStock reports total, reserved and available units. Unknown products
// yield an all-zero result.
func (s *InventoryService) GetStock(ctx context.Context, productID string) (domain.StockInfo, error) {
	return s.getStock(ctx, productID)
}

// Reserve places a hold on quantity units for the holder. The hold
// replaces any prior hold under the same (product, holder) key and
// expires on its own if neither confirmed nor cancelled in time.
func (s *InventoryService) Reserve(ctx context.Context, productID, holderID string, quantity int) (domain.Reservation, error) {
	if quantity <= 0 {
		return domain.Reservation{}, ErrInvalidQuantity
	}

	s.locks.Lock(productID)
	defer s.locks.Unlock(productID)

	info, err := s.getStock(ctx, productID)
	if err != nil {
		return domain.Reservation{}, err
	}

	// The reserved sum includes the holder's own prior hold, so
	// re-reserving is checked against capacity before the overwrite.
	if info.Available < quantity {
		return domain.Reservation{}, &InsufficientStockError{
			Available: info.Available,
			Requested: quantity,
		}
	}

	if err := s.holds.Put(ctx, productID, holderID, quantity, s.ttl); err != nil {
		return domain.Reservation{}, wrapStoreErr("s.holds.Put", err)
	}

	zap.L().Info("reserved stock",
		zap.String("productID", productID),
		zap.String("holderID", holderID),
		zap.Int("quantity", quantity),
		zap.Duration("ttl", s.ttl))

	return domain.Reservation{
		ProductID: productID,
		HolderID:  holderID,
		Quantity:  quantity,
		ExpiresIn: int(s.ttl.Seconds()),
	}, nil
}

// Confirm converts the holder's active hold into a permanent stock
// deduction. The quantity must match the held quantity exactly.
func (s *InventoryService) Confirm(ctx context.Context, productID, holderID string, quantity int) (domain.StockInfo, error) {
	if quantity <= 0 {
		return domain.StockInfo{}, ErrInvalidQuantity
	}

	s.locks.Lock(productID)
	defer s.locks.Unlock(productID)

	held, err := s.holds.Get(ctx, productID, holderID)
	if errors.Is(err, repository.ErrHoldNotFound) {
		return domain.StockInfo{}, ErrReservationNotFound
	}
	if err != nil {
		return domain.StockInfo{}, wrapStoreErr("s.holds.Get", err)
	}

	if held != quantity {
		return domain.StockInfo{}, &QuantityMismatchError{
			Held:      held,
			Requested: quantity,
		}
	}

	// Deduct before removing the hold. A failed deduction leaves the
	// hold active, so the caller can retry or cancel; the stores are
	// never left half-mutated.
	if err := s.stock.AdjustTotal(ctx, productID, -quantity); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			// Only reachable when the total was reduced externally
			// between reserve and confirm. Surface it.
			total, terr := s.stock.GetTotal(ctx, productID)
			if terr != nil {
				total = 0
			}

			return domain.StockInfo{}, &InsufficientStockError{
				Available: total,
				Requested: quantity,
			}
		}

		return domain.StockInfo{}, wrapStoreErr("s.stock.AdjustTotal", err)
	}

	if _, err := s.holds.Remove(ctx, productID, holderID); err != nil && !errors.Is(err, repository.ErrHoldNotFound) {
		return domain.StockInfo{}, wrapStoreErr("s.holds.Remove", err)
	}

	zap.L().Info("confirmed reservation",
		zap.String("productID", productID),
		zap.String("holderID", holderID),
		zap.Int("quantity", quantity))

	return s.getStock(ctx, productID)
}

// Cancel releases the holder's hold, if any. Cancelling an absent hold is
// a no-op success with a released quantity of zero.
func (s *InventoryService) Cancel(ctx context.Context, productID, holderID string) (domain.ReleasedStock, error) {
	released, err := s.holds.Remove(ctx, productID, holderID)
	if errors.Is(err, repository.ErrHoldNotFound) {
		return domain.ReleasedStock{ProductID: productID}, nil
	}
	if err != nil {
		return domain.ReleasedStock{}, wrapStoreErr("s.holds.Remove", err)
	}

	zap.L().Info("cancelled reservation",
		zap.String("productID", productID),
		zap.String("holderID", holderID),
		zap.Int("released", released))

	return domain.ReleasedStock{
		ProductID:        productID,
		ReleasedQuantity: released,
	}, nil
}

// AddStock increments the total unit count (restocking).
func (s *InventoryService) AddStock(ctx context.Context, productID string, quantity int) (domain.StockInfo, error) {
	if quantity <= 0 {
		return domain.StockInfo{}, ErrInvalidQuantity
	}

	s.locks.Lock(productID)
	defer s.locks.Unlock(productID)

	if err := s.stock.AdjustTotal(ctx, productID, quantity); err != nil {
		return domain.StockInfo{}, wrapStoreErr("s.stock.AdjustTotal", err)
	}

	zap.L().Info("added stock",
		zap.String("productID", productID),
		zap.Int("quantity", quantity))

	return s.getStock(ctx, productID)
}

// CheckLowStock reports whether available stock is at or below threshold.
// A non-positive threshold falls back to the default.
func (s *InventoryService) CheckLowStock(ctx context.Context, productID string, threshold int) (domain.LowStockReport, error) {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}

	info, err := s.getStock(ctx, productID)
	if err != nil {
		return domain.LowStockReport{}, err
	}

	return domain.LowStockReport{
		ProductID: productID,
		LowStock:  info.Available <= threshold,
		Available: info.Available,
		Threshold: threshold,
	}, nil
}

func (s *InventoryService) getStock(ctx context.Context, productID string) (domain.StockInfo, error) {
	total, err := s.stock.GetTotal(ctx, productID)
	if err != nil {
		return domain.StockInfo{}, wrapStoreErr("s.stock.GetTotal", err)
	}

	reserved, err := s.holds.SumByProduct(ctx, productID)
	if err != nil {
		return domain.StockInfo{}, wrapStoreErr("s.holds.SumByProduct", err)
	}

	available := total - reserved
	if available < 0 {
		available = 0
	}

	return domain.StockInfo{
		ProductID:  productID,
		TotalUnits: total,
		Reserved:   reserved,
		Available:  available,
	}, nil
}

// wrapStoreErr keeps domain sentinels intact and marks everything else,
// store I/O failures, as ErrStoreUnavailable.
func wrapStoreErr(op string, err error) error {
	if errors.Is(err, repository.ErrInsufficientStock) ||
		errors.Is(err, repository.ErrInvalidQuantity) ||
		errors.Is(err, repository.ErrHoldNotFound) {
		return fmt.Errorf("%v -> %w", op, err)
	}

	return fmt.Errorf("%v -> %w: %w", op, ErrStoreUnavailable, err)
}
