package repository

import (
	"context"

	"github.com/jhoicas/hospital-api/internal/domain/entity"
)

// LabTestRepository catálogo de exámenes de laboratorio.
type LabTestRepository interface {
	Create(ctx context.Context, t *entity.LabTest) error
	GetByID(ctx context.Context, id string) (*entity.LabTest, error)
	// List filtra por código o nombre (subcadena) y ordena por nombre.
	List(ctx context.Context, q string, limit int) ([]*entity.LabTest, error)
}
