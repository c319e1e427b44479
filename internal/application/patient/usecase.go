// Package patient registro de pacientes: alta, consulta, actualización parcial y búsqueda.
package patient

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/hospital-api/internal/application/dto"
	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/billing"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
	"github.com/jhoicas/hospital-api/internal/domain/revenue"
)

var ipdQuery = regexp.MustCompile(`(?i)^IPD[-_]?\d+$`)

// RevenueReader sumas por periodo de una fuente (lo implementa analytics.RevenueUseCase).
type RevenueReader interface {
	PeriodAmounts(ctx context.Context, src revenue.Source) (dto.PeriodAmounts, error)
}

// UseCase casos de uso del registro de pacientes.
type UseCase struct {
	repo    repository.PatientRepository
	revenue RevenueReader
	now     func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.PatientRepository, rev RevenueReader) *UseCase {
	return &UseCase{repo: repo, revenue: rev, now: time.Now}
}

// Create registra un paciente. ipdNumber repetido → ConflictError.
func (uc *UseCase) Create(ctx context.Context, in dto.PatientRequest) (*dto.PatientResponse, error) {
	contact := strings.TrimSpace(in.Contact)
	name := strings.TrimSpace(in.Name)
	if contact == "" {
		return nil, domain.NewValidationError("Contact (phone) is required")
	}
	if name == "" {
		return nil, domain.NewValidationError("Name is required")
	}

	ipd := strings.TrimSpace(in.IPDNumber)
	if ipd != "" {
		other, err := uc.repo.FindByIPDNumber(ctx, ipd)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, &domain.ConflictError{Field: "ipdNumber"}
		}
	}

	now := uc.now()
	p := &entity.Patient{
		ID:            uuid.New().String(),
		Name:          name,
		Contact:       contact,
		Address:       strings.TrimSpace(in.Address),
		Gender:        strings.TrimSpace(in.Gender),
		IPDNumber:     ipd,
		OPDNumber:     strings.TrimSpace(in.OPDNumber),
		Amount:        in.Amount.Or(decimal.Zero),
		Date:          now,
		ConsultDoctor: strings.TrimSpace(in.ConsultDoctor),
		Clinical:      entity.ClinicalNotes(in.ClinicalNotes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	p.FormType = revenue.ClassifyFormType(in.FormType, p.IPDNumber, p.OPDNumber)
	if in.Age.Set {
		age := int(in.Age.Int64())
		p.Age = &age
	}
	if d := billing.ParseDatePtr(in.Date.Raw); d != nil {
		p.Date = *d
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, &domain.ConflictError{Field: "ipdNumber"}
		}
		return nil, err
	}
	out := dto.FromPatient(p)
	return &out, nil
}

// List todos los pacientes (más recientes primero) con los ingresos de día, mes y año.
func (uc *UseCase) List(ctx context.Context) (*dto.PatientListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	rev, err := uc.revenue.PeriodAmounts(ctx, revenue.SourcePatients)
	if err != nil {
		return nil, err
	}
	out := &dto.PatientListResponse{Patients: make([]dto.PatientResponse, 0, len(list)), Revenue: rev}
	for _, p := range list {
		out.Patients = append(out.Patients, dto.FromPatient(p))
	}
	return out, nil
}

// GetByID obtiene un paciente.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.PatientResponse, error) {
	p, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromPatient(p)
	return &out, nil
}

// Update aplica los campos informados: strings no vacíos, números presentes y fechas válidas.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.PatientRequest) (*dto.PatientResponse, error) {
	p, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if ipd := strings.TrimSpace(in.IPDNumber); ipd != "" && ipd != p.IPDNumber {
		other, err := uc.repo.FindByIPDNumber(ctx, ipd)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != p.ID {
			return nil, &domain.ConflictError{Field: "ipdNumber"}
		}
		p.IPDNumber = ipd
	}
	setIfPresent(&p.Name, in.Name)
	setIfPresent(&p.Contact, in.Contact)
	setIfPresent(&p.Address, in.Address)
	setIfPresent(&p.Gender, in.Gender)
	setIfPresent(&p.OPDNumber, in.OPDNumber)
	setIfPresent(&p.ConsultDoctor, in.ConsultDoctor)
	mergeClinical(&p.Clinical, entity.ClinicalNotes(in.ClinicalNotes))
	if strings.TrimSpace(in.FormType) != "" {
		p.FormType = revenue.ClassifyFormType(in.FormType, p.IPDNumber, p.OPDNumber)
	}
	if in.Age.Set {
		age := int(in.Age.Int64())
		p.Age = &age
	}
	if in.Amount.Set {
		p.Amount = in.Amount.Value
	}
	if d := billing.ParseDatePtr(in.Date.Raw); d != nil {
		p.Date = *d
	}
	p.UpdatedAt = uc.now()

	if err := uc.repo.Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			return nil, &domain.ConflictError{Field: "ipdNumber"}
		case errors.Is(err, domain.ErrNotFound):
			return nil, &domain.NotFoundError{Entity: "Patient"}
		}
		return nil, err
	}
	out := dto.FromPatient(p)
	return &out, nil
}

// Delete elimina un paciente. Las facturas que lo referencian no se tocan.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.NotFoundError{Entity: "Patient"}
		}
		return err
	}
	return nil
}

// Filter primer registro (por fecha de evento) que coincide con ipd, contact o q, en ese orden.
// q con forma de número IPD (IPD-123, IPD_123, IPD123) busca solo por ipd exacto.
func (uc *UseCase) Filter(ctx context.Context, ipd, contact, q string) (*dto.PatientResponse, error) {
	f := repository.PatientFilter{
		IPD:     strings.TrimSpace(ipd),
		Contact: strings.TrimSpace(contact),
		Q:       strings.TrimSpace(q),
	}
	if f.IPD == "" && f.Contact == "" && f.Q == "" {
		return nil, domain.NewValidationError("ipd, contact or q query parameter is required")
	}
	f.QIsIPD = ipdQuery.MatchString(f.Q)

	p, err := uc.repo.FindFirst(ctx, f)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &domain.NotFoundError{Entity: "Patient"}
	}
	out := dto.FromPatient(p)
	return &out, nil
}

func (uc *UseCase) find(ctx context.Context, id string) (*entity.Patient, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, &domain.NotFoundError{Entity: "Patient"}
	}
	return p, nil
}

func setIfPresent(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func mergeClinical(dst *entity.ClinicalNotes, in entity.ClinicalNotes) {
	setIfPresent(&dst.PersonalHistory, in.PersonalHistory)
	setIfPresent(&dst.ChiefComplaints, in.ChiefComplaints)
	setIfPresent(&dst.HistoryPresenting, in.HistoryPresenting)
	setIfPresent(&dst.PreviousHistory, in.PreviousHistory)
	setIfPresent(&dst.AllergicHistory, in.AllergicHistory)
	setIfPresent(&dst.GCS, in.GCS)
	setIfPresent(&dst.Temp, in.Temp)
	setIfPresent(&dst.Pulse, in.Pulse)
	setIfPresent(&dst.BP, in.BP)
	setIfPresent(&dst.SPO2, in.SPO2)
	setIfPresent(&dst.RBS, in.RBS)
	setIfPresent(&dst.GeneralPhysicalExam, in.GeneralPhysicalExam)
	setIfPresent(&dst.CVS, in.CVS)
	setIfPresent(&dst.RS, in.RS)
	setIfPresent(&dst.PA, in.PA)
	setIfPresent(&dst.CNS, in.CNS)
	setIfPresent(&dst.ProvisionalDiagnosis, in.ProvisionalDiagnosis)
	setIfPresent(&dst.Pallor, in.Pallor)
	setIfPresent(&dst.Icterus, in.Icterus)
	setIfPresent(&dst.Clubbing, in.Clubbing)
	setIfPresent(&dst.Cyanosis, in.Cyanosis)
	setIfPresent(&dst.Edema, in.Edema)
}
