package repository

import (
	"context"

	"github.com/jhoicas/hospital-api/internal/domain/entity"
)

// BillRepository persistencia de un tipo de factura (cada tipo tiene su propia colección).
type BillRepository interface {
	Kind() entity.BillKind
	Create(ctx context.Context, b *entity.Bill) error
	GetByID(ctx context.Context, id string) (*entity.Bill, error)
	Update(ctx context.Context, b *entity.Bill) error
	Delete(ctx context.Context, id string) error
	// List filtra por contacto (subcadena, sin distinguir mayúsculas), ordena por creación descendente.
	List(ctx context.Context, contact string, limit int) ([]*entity.Bill, error)
}
