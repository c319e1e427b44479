package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
	"github.com/jhoicas/hospital-api/internal/domain/revenue"
)

var (
	_ repository.RevenueRepository           = (*RevenueRepo)(nil)
	_ repository.TruncatingRevenueRepository = (*RevenueRepo)(nil)
)

// revenueSource tabla y columna de importe de cada fuente.
type revenueSource struct {
	table   string
	amount  string
	columns string
	scan    func(pgx.Row) (any, error)
}

// formClassExpr misma regla que revenue.ClassifyFormType, evaluada en SQL para agrupar.
const formClassExpr = `CASE
	WHEN upper(btrim(form_type)) IN ('IPD', 'OPD') THEN upper(btrim(form_type))
	WHEN btrim(ipd_number) ~* '^IPD-' THEN 'IPD'
	WHEN btrim(ipd_number) ~* '^OPD-' THEN 'OPD'
	WHEN btrim(opd_number) ~* '^IPD-' THEN 'IPD'
	WHEN btrim(opd_number) ~* '^OPD-' THEN 'OPD'
	ELSE 'IPD' END`

func billSource(kind entity.BillKind) revenueSource {
	return revenueSource{
		table:   billTables[kind],
		amount:  "total",
		columns: billColumns,
		scan:    func(row pgx.Row) (any, error) { return scanBill(row, kind) },
	}
}

var revenueSources = map[revenue.Source]revenueSource{
	revenue.SourceSales: {
		table:   "sales",
		amount:  "total_amount",
		columns: saleColumns,
		scan:    func(row pgx.Row) (any, error) { return scanSale(row) },
	},
	revenue.SourceCashBills:    billSource(entity.BillKindCash),
	revenue.SourceLabBills:     billSource(entity.BillKindLab),
	revenue.SourceMedicalBills: billSource(entity.BillKindMedical),
	revenue.SourcePatients: {
		table:   "patients",
		amount:  "amount",
		columns: patientColumns,
		scan:    func(row pgx.Row) (any, error) { return scanPatient(row) },
	},
}

// RevenueRepo consultas de solo lectura para los agregados de ingresos.
type RevenueRepo struct {
	q Querier
}

// NewRevenueRepository construye el adaptador.
func NewRevenueRepository(q Querier) *RevenueRepo {
	return &RevenueRepo{q: q}
}

func lookupSource(src revenue.Source) (revenueSource, error) {
	s, ok := revenueSources[src]
	if !ok {
		return revenueSource{}, fmt.Errorf("fuente de ingresos desconocida %q", src)
	}
	return s, nil
}

// selectGroups SELECT de suma y conteo; los pacientes se agrupan por clasificación IPD/OPD.
func selectGroups(src revenue.Source, s revenueSource) string {
	sum := `COALESCE(SUM(COALESCE(` + s.amount + `, 0)), 0), COUNT(*)`
	if src == revenue.SourcePatients {
		return `SELECT ` + formClassExpr + ` AS class, ` + sum + ` FROM ` + s.table
	}
	return `SELECT '' AS class, ` + sum + ` FROM ` + s.table
}

func groupBy(src revenue.Source) string {
	if src == revenue.SourcePatients {
		return ` GROUP BY 1`
	}
	return ``
}

// Summarize suma por rango [Start, End); ventana cero = histórico completo.
func (r *RevenueRepo) Summarize(ctx context.Context, src revenue.Source, w revenue.Window) ([]revenue.Group, error) {
	s, err := lookupSource(src)
	if err != nil {
		return nil, err
	}
	query := selectGroups(src, s)
	var args []any
	if !w.IsAll() {
		query += ` WHERE date >= $1 AND date < $2`
		args = []any{w.Start, w.End}
	}
	return r.groups(ctx, query+groupBy(src), args...)
}

// SummarizeTruncated compara date_trunc(unidad, date, zona) con el mismo truncado de now.
// Motores sin date_trunc con zona (PostgreSQL < 12) o zonas desconocidas → ErrAggregationUnsupported.
func (r *RevenueRepo) SummarizeTruncated(ctx context.Context, src revenue.Source, p revenue.Period, now time.Time, loc *time.Location) ([]revenue.Group, error) {
	s, err := lookupSource(src)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.UTC
	}
	query := selectGroups(src, s) +
		` WHERE date_trunc($1, date, $2) = date_trunc($1, $3::timestamptz, $2)` + groupBy(src)
	groups, err := r.groups(ctx, query, string(p), loc.String(), now)
	if err != nil && isUnsupportedTruncation(err) {
		return nil, fmt.Errorf("%w: %v", domain.ErrAggregationUnsupported, err)
	}
	return groups, err
}

// ListInWindow documentos completos de la ventana por fecha ascendente.
func (r *RevenueRepo) ListInWindow(ctx context.Context, src revenue.Source, w revenue.Window) ([]revenue.Record, error) {
	s, err := lookupSource(src)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + s.columns + ` FROM ` + s.table
	var args []any
	if !w.IsAll() {
		query += ` WHERE date >= $1 AND date < $2`
		args = []any{w.Start, w.End}
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY date, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table, err)
	}
	defer rows.Close()

	var out []revenue.Record
	for rows.Next() {
		doc, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		out = append(out, toRecord(doc))
	}
	return out, rows.Err()
}

func (r *RevenueRepo) groups(ctx context.Context, query string, args ...any) ([]revenue.Group, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []revenue.Group
	for rows.Next() {
		var g revenue.Group
		if err := rows.Scan(&g.FormType, &g.Amount, &g.Count); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func toRecord(doc any) revenue.Record {
	switch d := doc.(type) {
	case *entity.Sale:
		return revenue.Record{ID: d.ID, Date: d.Date, Amount: d.TotalAmount, Doc: d}
	case *entity.Bill:
		return revenue.Record{ID: d.ID, Date: d.Date, Amount: d.Total, Doc: d}
	case *entity.Patient:
		return revenue.Record{ID: d.ID, Date: d.Date, Amount: d.Amount, Doc: d}
	}
	return revenue.Record{Doc: doc}
}
