package inventory

import (
	"context"

	"github.com/jhoicas/hospital-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que una venta y sus descuentos de stock se confirman o se descartan juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		medicineRepo repository.MedicineRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
