package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	domaininv "github.com/jhoicas/hospital-api/internal/domain/inventory"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
)

// StockLedger garantiza stock >= 0 en ventas y facturas de farmacia.
//
// Cada descuento es un UPDATE condicional atómico (stock = stock - qty WHERE stock >= qty),
// por lo que dos peticiones concurrentes nunca dejan el stock en negativo. Los lotes se
// pre-validan completos antes de descontar y se ejecutan dentro de la transacción del llamador.
type StockLedger struct {
	log zerolog.Logger
}

// NewStockLedger construye el ledger.
func NewStockLedger(log zerolog.Logger) *StockLedger {
	return &StockLedger{log: log}
}

// Decrement descuenta qty del medicamento. NotFoundError si no existe,
// InsufficientStockError si stock < qty; en ambos casos no se modifica nada.
func (l *StockLedger) Decrement(ctx context.Context, repo repository.MedicineRepository, medicineID string, qty int64) error {
	if qty <= 0 {
		return domain.NewValidationError("quantity must be a positive integer")
	}
	ok, err := repo.DecrementStock(ctx, medicineID, qty)
	if err != nil {
		return fmt.Errorf("descontar stock %s: %w", medicineID, err)
	}
	if ok {
		return nil
	}
	// Sin filas afectadas: distinguir inexistente de insuficiente.
	m, err := repo.GetByID(ctx, medicineID)
	if err != nil {
		return fmt.Errorf("consultar medicamento %s: %w", medicineID, err)
	}
	if m == nil {
		return &domain.NotFoundError{Entity: "Medicine", ID: medicineID}
	}
	return &domain.InsufficientStockError{
		MedicineID: medicineID,
		Name:       m.Name,
		Requested:  qty,
		Available:  m.Stock,
	}
}

// Precheck resuelve todos los medicamentos y verifica la disponibilidad agregada del lote
// antes de cualquier descuento. Devuelve los medicamentos por id.
func (l *StockLedger) Precheck(ctx context.Context, repo repository.MedicineRepository, lines []domaininv.Line) (map[string]*entity.Medicine, error) {
	demand := domaininv.NewDemand(lines)
	meds := make(map[string]*entity.Medicine, len(demand.MedicineIDs()))
	for _, id := range demand.MedicineIDs() {
		m, err := repo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("consultar medicamento %s: %w", id, err)
		}
		if m == nil {
			return nil, &domain.NotFoundError{Entity: "Medicine", ID: id}
		}
		meds[id] = m
	}
	if err := demand.Check(meds); err != nil {
		return nil, err
	}
	return meds, nil
}

// Apply pre-valida el lote y descuenta línea por línea en el orden recibido.
// Debe ejecutarse dentro de una transacción: si falla la línea N, el llamador descarta las anteriores.
func (l *StockLedger) Apply(ctx context.Context, repo repository.MedicineRepository, lines []domaininv.Line) (map[string]*entity.Medicine, error) {
	meds, err := l.Precheck(ctx, repo, lines)
	if err != nil {
		return nil, err
	}
	for i, line := range lines {
		if line.Quantity == 0 {
			continue
		}
		if err := l.Decrement(ctx, repo, line.MedicineID, line.Quantity); err != nil {
			if i > 0 {
				l.log.Warn().
					Err(err).
					Str("medicine_id", line.MedicineID).
					Int("line", i).
					Msg("descuento de stock falló a mitad de lote; la transacción revierte las líneas previas")
			}
			return nil, err
		}
	}
	return meds, nil
}

// AsReferenceError convierte un NotFoundError de medicamento referenciado en el cuerpo
// de la petición en un error de validación (400) con el mismo mensaje.
func AsReferenceError(err error) error {
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return &domain.ValidationError{Message: nf.Error()}
	}
	return err
}
