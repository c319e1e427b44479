package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/hospital-api/internal/application/dto"
	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
)

const labTestListLimit = 500

// LabTestUseCase catálogo de exámenes que referencian las facturas de laboratorio.
type LabTestUseCase struct {
	repo repository.LabTestRepository
}

// NewLabTestUseCase construye el caso de uso.
func NewLabTestUseCase(repo repository.LabTestRepository) *LabTestUseCase {
	return &LabTestUseCase{repo: repo}
}

// List busca por código o nombre y ordena por nombre.
func (uc *LabTestUseCase) List(ctx context.Context, q string) ([]dto.LabTestResponse, error) {
	list, err := uc.repo.List(ctx, strings.TrimSpace(q), labTestListLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LabTestResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.FromLabTest(t))
	}
	return out, nil
}

// Create registra un examen. El código es único.
func (uc *LabTestUseCase) Create(ctx context.Context, in dto.CreateLabTestRequest) (*dto.LabTestResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, domain.NewValidationError("code and name are required")
	}
	t := &entity.LabTest{
		ID:        uuid.New().String(),
		Code:      code,
		Name:      name,
		Price:     in.Price.Value,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, &domain.ConflictError{Field: "code"}
		}
		return nil, err
	}
	out := dto.FromLabTest(t)
	return &out, nil
}
