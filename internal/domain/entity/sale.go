package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta de mostrador: una venta corresponde 1:1 con un lote de descuentos de stock.
type Sale struct {
	ID          string
	Items       []SaleItem
	TotalAmount decimal.Decimal
	Date        time.Time
	CreatedAt   time.Time
}

// SaleItem línea de venta. Amount = UnitPrice × Quantity.
type SaleItem struct {
	MedicineID string
	UniqueCode string
	Name       string
	UnitPrice  decimal.Decimal
	Quantity   int64
	Amount     decimal.Decimal
}
