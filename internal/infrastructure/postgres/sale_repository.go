package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, items, COALESCE(total_amount, 0), date, created_at`

// SaleRepo ventas de farmacia; las líneas van en JSONB.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `INSERT INTO sales (id, items, total_amount, date, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, s.ID, toSaleItemDocs(s.Items), s.TotalAmount, s.Date, s.CreatedAt); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// List ventas más recientes primero.
func (r *SaleRepo) List(ctx context.Context, limit int) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `SELECT `+saleColumns+` FROM sales ORDER BY created_at DESC, id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var out []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var items []saleItemDoc
	if err := row.Scan(&s.ID, &items, &s.TotalAmount, &s.Date, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Items = fromSaleItemDocs(items)
	return &s, nil
}
