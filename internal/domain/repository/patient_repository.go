package repository

import (
	"context"

	"github.com/jhoicas/hospital-api/internal/domain/entity"
)

// PatientFilter criterios de búsqueda del registro más antiguo.
// Solo se usa el primero no vacío: IPD (exacto), Contact (subcadena) o Q.
type PatientFilter struct {
	IPD     string
	Contact string
	// Q busca por contacto o ipd exacto; si QIsIPD solo por ipd exacto.
	Q      string
	QIsIPD bool
}

// PatientRepository persistencia de pacientes.
type PatientRepository interface {
	// Create devuelve ErrDuplicate si el ipdNumber ya existe.
	Create(ctx context.Context, p *entity.Patient) error
	GetByID(ctx context.Context, id string) (*entity.Patient, error)
	Update(ctx context.Context, p *entity.Patient) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.Patient, error)
	// FindByContact coincidencia exacta; devuelve el registro más antiguo.
	FindByContact(ctx context.Context, contact string) (*entity.Patient, error)
	FindByIPDNumber(ctx context.Context, ipdNumber string) (*entity.Patient, error)
	// FindFirst primer registro por fecha de evento y luego creación.
	FindFirst(ctx context.Context, f PatientFilter) (*entity.Patient, error)
}
