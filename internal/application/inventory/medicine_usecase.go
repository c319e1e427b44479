package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/hospital-api/internal/application/dto"
	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/billing"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
)

// MedicineUseCase catálogo de medicamentos y ajustes absolutos de stock.
type MedicineUseCase struct {
	repo     repository.MedicineRepository
	txRunner TxRunner
	ledger   *StockLedger
	now      func() time.Time
}

// NewMedicineUseCase construye el caso de uso.
func NewMedicineUseCase(repo repository.MedicineRepository, txRunner TxRunner, ledger *StockLedger) *MedicineUseCase {
	return &MedicineUseCase{repo: repo, txRunner: txRunner, ledger: ledger, now: time.Now}
}

// Create registra un medicamento. code y name son obligatorios; code es único.
func (uc *MedicineUseCase) Create(ctx context.Context, in dto.CreateMedicineRequest) (*dto.MedicineResponse, error) {
	code := strings.TrimSpace(in.Code)
	name := strings.TrimSpace(in.Name)
	if code == "" || name == "" {
		return nil, domain.NewValidationError("code and name are required")
	}
	stock, err := stockValue(in.Stock, true)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	m := &entity.Medicine{
		ID:            uuid.New().String(),
		Code:          code,
		Name:          name,
		Stock:         stock,
		PurchasePrice: in.PurchasePrice.Value,
		SalePrice:     in.SalePrice.Value,
		PurchaseDate:  billing.ParseDatePtr(in.PurchaseDate.Raw),
		ExpiryDate:    billing.ParseDatePtr(in.ExpiryDate.Raw),
		Manufacturer:  in.Manufacturer,
		Description:   in.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, &domain.ConflictError{Field: "code"}
		}
		return nil, err
	}
	out := dto.FromMedicine(m)
	return &out, nil
}

// GetByID obtiene un medicamento.
func (uc *MedicineUseCase) GetByID(ctx context.Context, id string) (*dto.MedicineResponse, error) {
	m, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromMedicine(m)
	return &out, nil
}

// List devuelve el catálogo completo.
func (uc *MedicineUseCase) List(ctx context.Context) ([]dto.MedicineResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MedicineResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.FromMedicine(m))
	}
	return out, nil
}

// Update modifica los datos del catálogo. Fechas no interpretables se ignoran.
func (uc *MedicineUseCase) Update(ctx context.Context, id string, in dto.UpdateMedicineRequest) (*dto.MedicineResponse, error) {
	m, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != nil {
		if strings.TrimSpace(*in.Code) == "" {
			return nil, domain.NewValidationError("code cannot be empty")
		}
		m.Code = strings.TrimSpace(*in.Code)
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.NewValidationError("name cannot be empty")
		}
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.PurchasePrice.Set {
		m.PurchasePrice = in.PurchasePrice.Value
	}
	if in.SalePrice.Set {
		m.SalePrice = in.SalePrice.Value
	}
	if d := billing.ParseDatePtr(in.PurchaseDate.Raw); d != nil {
		m.PurchaseDate = d
	}
	if d := billing.ParseDatePtr(in.ExpiryDate.Raw); d != nil {
		m.ExpiryDate = d
	}
	if in.Manufacturer != nil {
		m.Manufacturer = *in.Manufacturer
	}
	if in.Description != nil {
		m.Description = *in.Description
	}
	m.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, m); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, &domain.ConflictError{Field: "code"}
		}
		return nil, err
	}
	out := dto.FromMedicine(m)
	return &out, nil
}

// Delete elimina un medicamento.
func (uc *MedicineUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.NotFoundError{Entity: "Medicine"}
		}
		return err
	}
	return nil
}

// SetStock fija el stock absoluto (inventario físico). No admite negativos.
func (uc *MedicineUseCase) SetStock(ctx context.Context, id string, in dto.SetStockRequest) (*dto.MedicineResponse, error) {
	stock, err := stockValue(in.Stock, false)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.SetStock(ctx, id, stock); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Entity: "Medicine"}
		}
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// BulkSetStock aplica varios ajustes absolutos en una transacción. Los ids inexistentes se
// informan en MissingIDs sin abortar el resto.
func (uc *MedicineUseCase) BulkSetStock(ctx context.Context, items []dto.BulkStockItem) (*dto.BulkStockResponse, error) {
	if len(items) == 0 {
		return nil, domain.NewValidationError("an array of {id, stock} is required")
	}
	stocks := make([]int64, len(items))
	for i, it := range items {
		if strings.TrimSpace(it.ID) == "" {
			return nil, domain.NewValidationError("id is required")
		}
		s, err := stockValue(it.Stock, false)
		if err != nil {
			return nil, err
		}
		stocks[i] = s
	}

	var res dto.BulkStockResult
	err := uc.txRunner.Run(ctx, func(medicineRepo repository.MedicineRepository, _ repository.SaleRepository) error {
		res = dto.BulkStockResult{}
		for i, it := range items {
			if err := medicineRepo.SetStock(ctx, it.ID, stocks[i]); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					res.MissingIDs = append(res.MissingIDs, it.ID)
					continue
				}
				return err
			}
			res.MatchedCount++
			res.ModifiedCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.BulkStockResponse{Message: "Stock updated for multiple medicines", Result: res}, nil
}

// Dispense descuenta stock de un medicamento fuera de una venta (entrega directa).
func (uc *MedicineUseCase) Dispense(ctx context.Context, id string, in dto.DispenseRequest) (*dto.MedicineResponse, error) {
	if !in.Quantity.Set || !in.Quantity.Value.IsInteger() || !in.Quantity.Value.IsPositive() {
		return nil, domain.NewValidationError("quantity must be a positive integer")
	}
	if err := uc.ledger.Decrement(ctx, uc.repo, id, in.Quantity.Value.IntPart()); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

func (uc *MedicineUseCase) find(ctx context.Context, id string) (*entity.Medicine, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, &domain.NotFoundError{Entity: "Medicine"}
	}
	return m, nil
}

func stockValue(n dto.Number, optional bool) (int64, error) {
	if !n.Set {
		if optional {
			return 0, nil
		}
		return 0, domain.NewValidationError("stock is required")
	}
	if !n.Value.IsInteger() || n.Value.IsNegative() {
		return 0, domain.NewValidationError("stock must be a non-negative integer")
	}
	return n.Value.IntPart(), nil
}
