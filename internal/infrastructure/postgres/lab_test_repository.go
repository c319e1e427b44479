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

var _ repository.LabTestRepository = (*LabTestRepo)(nil)

// LabTestRepo catálogo de exámenes de laboratorio.
type LabTestRepo struct {
	q Querier
}

// NewLabTestRepository construye el adaptador.
func NewLabTestRepository(q Querier) *LabTestRepo {
	return &LabTestRepo{q: q}
}

// Create código repetido → ErrDuplicate.
func (r *LabTestRepo) Create(ctx context.Context, t *entity.LabTest) error {
	query := `INSERT INTO lab_tests (id, code, name, price, created_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, t.ID, t.Code, t.Name, t.Price, t.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert lab test: %w", err)
	}
	return nil
}

func (r *LabTestRepo) GetByID(ctx context.Context, id string) (*entity.LabTest, error) {
	var t entity.LabTest
	err := r.q.QueryRow(ctx, `SELECT id, code, name, price, created_at FROM lab_tests WHERE id = $1`, id).
		Scan(&t.ID, &t.Code, &t.Name, &t.Price, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lab test: %w", err)
	}
	return &t, nil
}

func (r *LabTestRepo) List(ctx context.Context, q string, limit int) ([]*entity.LabTest, error) {
	query := `
		SELECT id, code, name, price, created_at FROM lab_tests
		WHERE $1::text = '' OR code ILIKE $2 OR name ILIKE $2
		ORDER BY name, id
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, q, likePattern(q), limit)
	if err != nil {
		return nil, fmt.Errorf("list lab tests: %w", err)
	}
	defer rows.Close()

	var out []*entity.LabTest
	for rows.Next() {
		var t entity.LabTest
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.Price, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lab test: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
