package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/hospital-api/internal/domain/entity"
)

// MedicineRepository define el puerto de persistencia para Medicine (DIP).
// Las búsquedas por id devuelven (nil, nil) cuando no existe.
type MedicineRepository interface {
	Create(ctx context.Context, m *entity.Medicine) error
	GetByID(ctx context.Context, id string) (*entity.Medicine, error)
	List(ctx context.Context) ([]*entity.Medicine, error)
	// Update persiste los datos del catálogo; no toca stock.
	Update(ctx context.Context, m *entity.Medicine) error
	Delete(ctx context.Context, id string) error
	// SetStock fija el stock absoluto. ErrNotFound si no existe.
	SetStock(ctx context.Context, id string, stock int64) error
	// DecrementStock resta qty solo si stock >= qty, en una única operación atómica.
	// ok=false cuando no se afectó ninguna fila (no existe o stock insuficiente).
	DecrementStock(ctx context.Context, id string, qty int64) (ok bool, err error)
	UpdateSalePrice(ctx context.Context, id string, price decimal.Decimal) error
}
