package repository

import (
	"context"

	"github.com/jhoicas/hospital-api/internal/domain/entity"
)

// SaleRepository persistencia de ventas de farmacia.
type SaleRepository interface {
	Create(ctx context.Context, s *entity.Sale) error
	List(ctx context.Context, limit int) ([]*entity.Sale, error)
}
