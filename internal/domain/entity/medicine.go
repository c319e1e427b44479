package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medicine representa un medicamento del inventario de farmacia.
// Stock es un entero que nunca puede quedar negativo.
type Medicine struct {
	ID            string
	Code          string // código único
	Name          string
	Stock         int64
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	PurchaseDate  *time.Time
	ExpiryDate    *time.Time
	Manufacturer  string
	Description   string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UnitPrice resuelve el precio de venta: explícito (> 0), salePrice, purchasePrice o 0.
func (m *Medicine) UnitPrice(explicit *decimal.Decimal) decimal.Decimal {
	if explicit != nil && explicit.IsPositive() {
		return *explicit
	}
	if m.SalePrice.IsPositive() {
		return m.SalePrice
	}
	if m.PurchasePrice.IsPositive() {
		return m.PurchasePrice
	}
	return decimal.Zero
}
