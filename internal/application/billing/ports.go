package billing

import (
	"context"

	"github.com/jhoicas/hospital-api/internal/domain/entity"
	domaininv "github.com/jhoicas/hospital-api/internal/domain/inventory"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye el inventario
// y la colección de facturas del tipo indicado.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, kind entity.BillKind, fn func(
		medicineRepo repository.MedicineRepository,
		billRepo repository.BillRepository,
	) error) error
}

// StockLedger interfaz para integrar facturación de farmacia con inventario.
// Apply pre-valida y descuenta usando el repositorio del caller (misma transacción).
// Si retorna error (ej: InsufficientStockError), el caller debe hacer rollback.
type StockLedger interface {
	Apply(ctx context.Context, repo repository.MedicineRepository, lines []domaininv.Line) (map[string]*entity.Medicine, error)
}

// ContactLocker serializa la reconciliación de pacientes por contacto.
// unlock siempre es no nil cuando err es nil.
type ContactLocker interface {
	Lock(ctx context.Context, contact string) (unlock func(), err error)
}

// NoopLocker no bloquea; se usa cuando no hay Redis configurado.
type NoopLocker struct{}

// Lock implementa ContactLocker.
func (NoopLocker) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}
