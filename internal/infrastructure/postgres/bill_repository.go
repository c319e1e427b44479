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

var _ repository.BillRepository = (*BillRepo)(nil)

const billColumns = `id, patient_id, contact, name, ipd_number, admission_date, discharge_date, services,
	COALESCE(total, 0), advance_payment, net_payable, date, created_at, updated_at`

// billTables una tabla por tipo de factura.
var billTables = map[entity.BillKind]string{
	entity.BillKindCash:    "cash_bills",
	entity.BillKindLab:     "lab_bills",
	entity.BillKindMedical: "medical_bills",
}

// BillRepo facturas de un tipo sobre su propia tabla (usable con pool o tx).
type BillRepo struct {
	q     Querier
	kind  entity.BillKind
	table string
}

// NewBillRepository construye el adaptador para el tipo indicado.
func NewBillRepository(q Querier, kind entity.BillKind) *BillRepo {
	table, ok := billTables[kind]
	if !ok {
		panic(fmt.Sprintf("postgres: tipo de factura desconocido %q", kind))
	}
	return &BillRepo{q: q, kind: kind, table: table}
}

// Kind tipo de factura del repositorio.
func (r *BillRepo) Kind() entity.BillKind { return r.kind }

// Create persiste la factura con sus servicios.
func (r *BillRepo) Create(ctx context.Context, b *entity.Bill) error {
	query := `
		INSERT INTO ` + r.table + ` (id, patient_id, contact, name, ipd_number, admission_date, discharge_date,
			services, total, advance_payment, net_payable, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.PatientID, b.Contact, b.Name, b.IPDNumber, b.AdmissionDate, b.DischargeDate,
		toServiceDocs(b.Services), b.Total, b.AdvancePayment, b.NetPayable, b.Date, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", r.table, err)
	}
	return nil
}

// GetByID (nil, nil) si no existe.
func (r *BillRepo) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	b, err := r.scan(r.q.QueryRow(ctx, `SELECT `+billColumns+` FROM `+r.table+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.table, err)
	}
	return b, nil
}

// Update reemplaza todos los campos editables.
func (r *BillRepo) Update(ctx context.Context, b *entity.Bill) error {
	query := `
		UPDATE ` + r.table + `
		SET patient_id = $2, contact = $3, name = $4, ipd_number = $5, admission_date = $6,
		    discharge_date = $7, services = $8, total = $9, advance_payment = $10, net_payable = $11,
		    date = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		b.ID, b.PatientID, b.Contact, b.Name, b.IPDNumber, b.AdmissionDate, b.DischargeDate,
		toServiceDocs(b.Services), b.Total, b.AdvancePayment, b.NetPayable, b.Date, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la factura.
func (r *BillRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM `+r.table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List filtra por contacto (ILIKE) y ordena por creación descendente.
func (r *BillRepo) List(ctx context.Context, contact string, limit int) ([]*entity.Bill, error) {
	query := `
		SELECT ` + billColumns + ` FROM ` + r.table + `
		WHERE $1::text = '' OR contact ILIKE $2
		ORDER BY created_at DESC, id
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, contact, likePattern(contact), limit)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()

	var out []*entity.Bill
	for rows.Next() {
		b, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *BillRepo) scan(row pgx.Row) (*entity.Bill, error) {
	return scanBill(row, r.kind)
}

func scanBill(row pgx.Row, kind entity.BillKind) (*entity.Bill, error) {
	b := entity.Bill{Kind: kind}
	var services []serviceDoc
	err := row.Scan(
		&b.ID, &b.PatientID, &b.Contact, &b.Name, &b.IPDNumber, &b.AdmissionDate, &b.DischargeDate, &services,
		&b.Total, &b.AdvancePayment, &b.NetPayable, &b.Date, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Services = fromServiceDocs(services)
	return &b, nil
}
