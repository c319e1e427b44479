package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/hospital-api/internal/application/dto"
	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	domaininv "github.com/jhoicas/hospital-api/internal/domain/inventory"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
)

// SaleUseCase registra ventas de farmacia junto con sus descuentos de stock.
type SaleUseCase struct {
	txRunner TxRunner
	sales    repository.SaleRepository
	ledger   *StockLedger
	log      zerolog.Logger
	now      func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner TxRunner, sales repository.SaleRepository, ledger *StockLedger, log zerolog.Logger) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, sales: sales, ledger: ledger, log: log, now: time.Now}
}

const saleListLimit = 500

// List últimas ventas, más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context) ([]dto.SaleResponse, error) {
	list, err := uc.sales.List(ctx, saleListLimit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.FromSale(s))
	}
	return out, nil
}

// Create valida las líneas, descuenta stock en orden y persiste la venta, todo en una transacción.
// Precio unitario: unitPrice explícito, salePrice, purchasePrice o 0. Un unitPrice explícito
// positivo actualiza el salePrice del medicamento.
func (uc *SaleUseCase) Create(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items are required")
	}
	lines := make([]domaininv.Line, 0, len(in.Items))
	for _, it := range in.Items {
		if it.MedicineID == "" {
			return nil, domain.NewValidationError("medicineId is required")
		}
		if !it.Quantity.Set || !it.Quantity.Value.IsInteger() || !it.Quantity.Value.IsPositive() {
			return nil, domain.NewValidationError("quantity must be a positive integer")
		}
		lines = append(lines, domaininv.Line{MedicineID: it.MedicineID, Quantity: it.Quantity.Value.IntPart()})
	}

	now := uc.now()
	sale := &entity.Sale{
		ID:        uuid.New().String(),
		Items:     make([]entity.SaleItem, 0, len(in.Items)),
		Date:      now,
		CreatedAt: now,
	}

	err := uc.txRunner.Run(ctx, func(medicineRepo repository.MedicineRepository, saleRepo repository.SaleRepository) error {
		meds, err := uc.ledger.Precheck(ctx, medicineRepo, lines)
		if err != nil {
			return AsReferenceError(err)
		}

		total := decimal.Zero
		for i, it := range in.Items {
			m := meds[it.MedicineID]
			qty := lines[i].Quantity
			price := m.UnitPrice(it.UnitPrice.Ptr())

			if err := uc.ledger.Decrement(ctx, medicineRepo, m.ID, qty); err != nil {
				return AsReferenceError(err)
			}
			if it.UnitPrice.Set && it.UnitPrice.Value.IsPositive() && !it.UnitPrice.Value.Equal(m.SalePrice) {
				if err := medicineRepo.UpdateSalePrice(ctx, m.ID, it.UnitPrice.Value); err != nil {
					return err
				}
				m.SalePrice = it.UnitPrice.Value
			}

			amount := price.Mul(decimal.NewFromInt(qty))
			sale.Items = append(sale.Items, entity.SaleItem{
				MedicineID: m.ID,
				UniqueCode: m.Code,
				Name:       m.Name,
				UnitPrice:  price,
				Quantity:   qty,
				Amount:     amount,
			})
			total = total.Add(amount)
		}
		sale.TotalAmount = total
		return saleRepo.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("sale_id", sale.ID).
		Int("items", len(sale.Items)).
		Str("total", sale.TotalAmount.String()).
		Msg("venta registrada")

	out := dto.FromSale(sale)
	return &out, nil
}
