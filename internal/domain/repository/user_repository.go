package repository

import (
	"context"

	"github.com/jhoicas/hospital-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	// Create devuelve ErrDuplicate si el email ya existe.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.User, error)
	// Update reemplaza los datos del usuario. ErrNotFound si no existe, ErrDuplicate si choca email o teléfono.
	Update(ctx context.Context, user *entity.User) error
}
