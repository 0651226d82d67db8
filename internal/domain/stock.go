package domain

// StockInfo is the read model for a product's inventory.
// Available is TotalUnits minus the sum of active holds, clamped at zero.
type StockInfo struct {
	ProductID  string `json:"product_id"`
	TotalUnits int    `json:"total_units"`
	Reserved   int    `json:"reserved"`
	Available  int    `json:"available"`
}

// Reservation is the result of placing a hold on stock.
type Reservation struct {
	ProductID string `json:"product_id"`
	HolderID  string `json:"holder_id"`
	Quantity  int    `json:"quantity"`
	ExpiresIn int    `json:"expires_in_seconds"`
}

// ReleasedStock is the result of cancelling a hold. ReleasedQuantity is
// zero when no hold existed for the key.
type ReleasedStock struct {
	ProductID        string `json:"product_id"`
	ReleasedQuantity int    `json:"released_quantity"`
}

type LowStockReport struct {
	ProductID string `json:"product_id"`
	LowStock  bool   `json:"low_stock"`
	Available int    `json:"available"`
	Threshold int    `json:"threshold"`
}
