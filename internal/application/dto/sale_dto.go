package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta: unitPrice opcional.
type SaleItemRequest struct {
	MedicineID string `json:"medicineId" validate:"required"`
	Quantity   Number `json:"quantity"`
	UnitPrice  Number `json:"unitPrice"`
}

// CreateSaleRequest body para POST /sale/sales.
type CreateSaleRequest struct {
	Items []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleItemResponse línea de venta persistida.
type SaleItemResponse struct {
	MedicineID string          `json:"medicineId"`
	UniqueCode string          `json:"uniqueCode"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int64           `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
}

// SaleResponse venta creada.
type SaleResponse struct {
	ID          string             `json:"_id"`
	Items       []SaleItemResponse `json:"items"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	Date        time.Time          `json:"date"`
	CreatedAt   time.Time          `json:"createdAt"`
}
