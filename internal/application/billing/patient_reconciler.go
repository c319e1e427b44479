package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
	"github.com/jhoicas/hospital-api/internal/domain/revenue"
)

// ReconcileInput datos del paciente que trae una factura de caja. Vacíos y nil no sobrescriben.
type ReconcileInput struct {
	Contact   string
	Name      string
	IPDNumber string
	Date      *time.Time
	Amount    *decimal.Decimal
}

// PatientReconciler mantiene un paciente "último conocido" por contacto a partir de las facturas de caja.
// Es un proceso secundario: sus errores se registran y nunca fallan la factura.
type PatientReconciler struct {
	patients repository.PatientRepository
	locker   ContactLocker
	log      zerolog.Logger
	now      func() time.Time
}

// NewPatientReconciler construye el reconciliador. locker nil equivale a NoopLocker.
func NewPatientReconciler(patients repository.PatientRepository, locker ContactLocker, log zerolog.Logger) *PatientReconciler {
	if locker == nil {
		locker = NoopLocker{}
	}
	return &PatientReconciler{patients: patients, locker: locker, log: log, now: time.Now}
}

// FindByContact busca por coincidencia exacta de contacto (el registro más antiguo).
func (r *PatientReconciler) FindByContact(ctx context.Context, contact string) (*entity.Patient, error) {
	return r.patients.FindByContact(ctx, contact)
}

// CreateOrMerge crea el paciente si existing es nil; si no, sobrescribe name, ipdNumber, date y
// amount con los valores entrantes no vacíos ("gana el último no vacío").
func (r *PatientReconciler) CreateOrMerge(ctx context.Context, existing *entity.Patient, in ReconcileInput) (*entity.Patient, error) {
	now := r.now()
	if existing == nil {
		p := &entity.Patient{
			ID:        uuid.New().String(),
			Name:      in.Name,
			Contact:   in.Contact,
			IPDNumber: in.IPDNumber,
			FormType:  revenue.ClassifyFormType("", in.IPDNumber, ""),
			Amount:    decimal.Zero,
			Date:      now,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if in.Date != nil {
			p.Date = *in.Date
		}
		if in.Amount != nil {
			p.Amount = *in.Amount
		}
		if err := r.patients.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("crear paciente %s: %w", in.Contact, err)
		}
		return p, nil
	}

	p := *existing
	if s := strings.TrimSpace(in.Name); s != "" {
		p.Name = s
	}
	if s := strings.TrimSpace(in.IPDNumber); s != "" {
		p.IPDNumber = s
	}
	if in.Date != nil {
		p.Date = *in.Date
	}
	if in.Amount != nil && !in.Amount.IsZero() {
		p.Amount = *in.Amount
	}
	p.UpdatedAt = now
	if err := r.patients.Update(ctx, &p); err != nil {
		return nil, fmt.Errorf("actualizar paciente %s: %w", p.ID, err)
	}
	return &p, nil
}

// Reconcile ejecuta FindByContact → CreateOrMerge bajo el lock del contacto.
// Si el lock no se obtiene se continúa sin él (último escritor gana).
func (r *PatientReconciler) Reconcile(ctx context.Context, in ReconcileInput) (*entity.Patient, error) {
	in.Contact = strings.TrimSpace(in.Contact)
	if in.Contact == "" {
		return nil, fmt.Errorf("reconciliar paciente: contacto vacío")
	}

	unlock, err := r.locker.Lock(ctx, in.Contact)
	if err != nil {
		r.log.Warn().Err(err).Str("contact", in.Contact).Msg("no se obtuvo lock de contacto; se continúa sin lock")
		unlock = func() {}
	}
	defer unlock()

	existing, err := r.FindByContact(ctx, in.Contact)
	if err != nil {
		return nil, fmt.Errorf("buscar paciente %s: %w", in.Contact, err)
	}
	return r.CreateOrMerge(ctx, existing, in)
}
