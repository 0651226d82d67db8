package dao

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("invalid quantity")
)

type StockRecord struct {
	ProductID  string `gorm:"primaryKey;size:64"`
	TotalUnits int    `gorm:"not null;check:total_units >= 0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type StockDAO struct {
	db *gorm.DB
}

func NewStockDAO(db *gorm.DB) *StockDAO {
	return &StockDAO{
		db: db,
	}
}

// SetTotal writes the absolute unit count for a product, creating the
// record on first use.
func (d *StockDAO) SetTotal(ctx context.Context, productID string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	err := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_units": quantity,
				"updated_at":  time.Now(),
			}),
		}).
		Create(&StockRecord{ProductID: productID, TotalUnits: quantity}).Error

	return translateError(err)
}

// AdjustTotal applies delta to a product's unit count in a single
// statement. A negative delta is guarded so total_units never goes below
// zero; an adjustment that would is reported as ErrInsufficientStock.
func (d *StockDAO) AdjustTotal(ctx context.Context, productID string, delta int) error {
	if delta >= 0 {
		err := d.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "product_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"total_units": gorm.Expr("stock_records.total_units + ?", delta),
					"updated_at":  time.Now(),
				}),
			}).
			Create(&StockRecord{ProductID: productID, TotalUnits: delta}).Error

		return translateError(err)
	}

	result := d.db.WithContext(ctx).
		Model(&StockRecord{}).
		Where("product_id = ? AND total_units + ? >= 0", productID, delta).
		Updates(map[string]interface{}{
			"total_units": gorm.Expr("total_units + ?", delta),
		})
	if result.Error != nil {
		return translateError(result.Error)
	}

	// Zero rows means either the record is missing (total is 0) or the
	// guard rejected the decrement. Both are insufficient stock.
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}

	return nil
}

// GetTotal returns the unit count for a product. Unknown products report
// zero rather than an error.
func (d *StockDAO) GetTotal(ctx context.Context, productID string) (int, error) {
	var record StockRecord
	err := d.db.WithContext(ctx).First(&record, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, translateError(err)
	}

	return record.TotalUnits, nil
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
		// The total_units check constraint is the last line of defense
		// against a concurrent decrement racing past the WHERE guard.
		return ErrInsufficientStock
	}

	return err
}
