package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMedicineRequest body para POST /medicine/medicines.
type CreateMedicineRequest struct {
	Code          string    `json:"code" validate:"required,max=64"`
	Name          string    `json:"name" validate:"required,max=200"`
	Stock         Number    `json:"stock"`
	PurchasePrice Number    `json:"purchasePrice"`
	SalePrice     Number    `json:"salePrice"`
	PurchaseDate  DateInput `json:"purchaseDate"`
	ExpiryDate    DateInput `json:"expiryDate"`
	Manufacturer  string    `json:"manufacturer" validate:"max=200"`
	Description   string    `json:"description"`
}

// UpdateMedicineRequest body para PUT /medicine/medicines/:id. El stock se cambia por /stock.
type UpdateMedicineRequest struct {
	Code          *string   `json:"code" validate:"omitempty,max=64"`
	Name          *string   `json:"name" validate:"omitempty,max=200"`
	PurchasePrice Number    `json:"purchasePrice"`
	SalePrice     Number    `json:"salePrice"`
	PurchaseDate  DateInput `json:"purchaseDate"`
	ExpiryDate    DateInput `json:"expiryDate"`
	Manufacturer  *string   `json:"manufacturer"`
	Description   *string   `json:"description"`
}

// SetStockRequest body para PUT /medicine/medicines/:id/stock.
type SetStockRequest struct {
	Stock Number `json:"stock"`
}

// BulkStockItem elemento del arreglo de PUT /medicine/medicines/stock/bulk.
type BulkStockItem struct {
	ID    string `json:"id" validate:"required"`
	Stock Number `json:"stock"`
}

// BulkStockResult conteos de la actualización masiva.
type BulkStockResult struct {
	MatchedCount  int      `json:"matchedCount"`
	ModifiedCount int      `json:"modifiedCount"`
	MissingIDs    []string `json:"missingIds,omitempty"`
}

// BulkStockResponse respuesta de la actualización masiva.
type BulkStockResponse struct {
	Message string          `json:"message"`
	Result  BulkStockResult `json:"result"`
}

// MedicineResponse salida de un medicamento.
type MedicineResponse struct {
	ID            string          `json:"_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Stock         int64           `json:"stock"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SalePrice     decimal.Decimal `json:"salePrice"`
	PurchaseDate  *time.Time      `json:"purchaseDate,omitempty"`
	ExpiryDate    *time.Time      `json:"expiryDate,omitempty"`
	Manufacturer  string          `json:"manufacturer,omitempty"`
	Description   string          `json:"description,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// DispenseRequest body para POST /medicine/medicines/:id/dispense.
type DispenseRequest struct {
	Quantity Number `json:"quantity"`
}
