package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
)

var _ repository.PatientRepository = (*PatientRepo)(nil)

const patientColumns = `id, name, contact, address, age, gender, form_type, ipd_number, opd_number,
	COALESCE(amount, 0), date, consult_doctor, clinical, created_at, updated_at`

// PatientRepo implementación del puerto PatientRepository sobre PostgreSQL.
// El índice único parcial sobre ipd_number rechaza duplicados no vacíos.
type PatientRepo struct {
	q Querier
}

// NewPatientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPatientRepository(q Querier) *PatientRepo {
	return &PatientRepo{q: q}
}

// Create persiste el paciente. ipdNumber repetido → ErrDuplicate.
func (r *PatientRepo) Create(ctx context.Context, p *entity.Patient) error {
	query := `
		INSERT INTO patients (id, name, contact, address, age, gender, form_type, ipd_number, opd_number,
			amount, date, consult_doctor, clinical, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Contact, p.Address, p.Age, p.Gender, p.FormType, p.IPDNumber, p.OPDNumber,
		p.Amount, p.Date, p.ConsultDoctor, clinicalDoc(p.Clinical), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

// GetByID (nil, nil) si no existe.
func (r *PatientRepo) GetByID(ctx context.Context, id string) (*entity.Patient, error) {
	return r.one(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id)
}

// Update reemplaza todos los campos.
func (r *PatientRepo) Update(ctx context.Context, p *entity.Patient) error {
	query := `
		UPDATE patients
		SET name = $2, contact = $3, address = $4, age = $5, gender = $6, form_type = $7, ipd_number = $8,
		    opd_number = $9, amount = $10, date = $11, consult_doctor = $12, clinical = $13, updated_at = $14
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Contact, p.Address, p.Age, p.Gender, p.FormType, p.IPDNumber,
		p.OPDNumber, p.Amount, p.Date, p.ConsultDoctor, clinicalDoc(p.Clinical), p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el paciente.
func (r *PatientRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List todos los pacientes, más recientes primero.
func (r *PatientRepo) List(ctx context.Context) ([]*entity.Patient, error) {
	rows, err := r.q.Query(ctx, `SELECT `+patientColumns+` FROM patients ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var out []*entity.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// FindByContact coincidencia exacta, el registro más antiguo.
func (r *PatientRepo) FindByContact(ctx context.Context, contact string) (*entity.Patient, error) {
	return r.one(ctx, `SELECT `+patientColumns+` FROM patients WHERE contact = $1 ORDER BY created_at, id LIMIT 1`, contact)
}

// FindByIPDNumber (nil, nil) si no existe o ipdNumber está vacío.
func (r *PatientRepo) FindByIPDNumber(ctx context.Context, ipdNumber string) (*entity.Patient, error) {
	if ipdNumber == "" {
		return nil, nil
	}
	return r.one(ctx, `SELECT `+patientColumns+` FROM patients WHERE ipd_number = $1`, ipdNumber)
}

// FindFirst primer registro por fecha del evento según el filtro.
func (r *PatientRepo) FindFirst(ctx context.Context, f repository.PatientFilter) (*entity.Patient, error) {
	var where string
	var args []any
	switch {
	case f.IPD != "":
		where, args = `ipd_number = $1`, []any{f.IPD}
	case f.Contact != "":
		where, args = `contact ILIKE $1`, []any{likePattern(f.Contact)}
	case f.QIsIPD:
		where, args = `upper(ipd_number) = upper($1)`, []any{f.Q}
	default:
		where, args = `contact ILIKE $1 OR ipd_number = $2`, []any{likePattern(f.Q), f.Q}
	}
	query := `SELECT ` + patientColumns + ` FROM patients WHERE ` + where + ` ORDER BY date, created_at, id LIMIT 1`
	return r.one(ctx, query, args...)
}

func (r *PatientRepo) one(ctx context.Context, query string, args ...any) (*entity.Patient, error) {
	p, err := scanPatient(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

func scanPatient(row pgx.Row) (*entity.Patient, error) {
	var p entity.Patient
	var clinical clinicalDoc
	err := row.Scan(
		&p.ID, &p.Name, &p.Contact, &p.Address, &p.Age, &p.Gender, &p.FormType, &p.IPDNumber, &p.OPDNumber,
		&p.Amount, &p.Date, &p.ConsultDoctor, &clinical, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Clinical = entity.ClinicalNotes(clinical)
	return &p, nil
}
