package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hospital-api/internal/application/inventory"
	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	domaininv "github.com/jhoicas/hospital-api/internal/domain/inventory"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
	"github.com/jhoicas/hospital-api/internal/infrastructure/memory"
)

func seedMedicine(t *testing.T, repo repository.MedicineRepository, id, name string, stock int64, salePrice int64) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &entity.Medicine{
		ID:        id,
		Code:      "CODE-" + id,
		Name:      name,
		Stock:     stock,
		SalePrice: decimal.NewFromInt(salePrice),
	}))
}

func stockOf(t *testing.T, repo repository.MedicineRepository, id string) int64 {
	t.Helper()
	m, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m.Stock
}

func TestDecrement_Boundaries(t *testing.T) {
	store := memory.NewStore()
	repo := store.Medicines()
	ledger := inventory.NewStockLedger(zerolog.Nop())
	seedMedicine(t, repo, "m1", "Paracetamol", 5, 2)
	ctx := context.Background()

	err := ledger.Decrement(ctx, repo, "m1", 6)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Insufficient stock for Paracetamol", err.Error())
	assert.Equal(t, int64(5), insufficient.Available)
	assert.Equal(t, int64(5), stockOf(t, repo, "m1"))

	require.NoError(t, ledger.Decrement(ctx, repo, "m1", 5), "el stock exacto se puede consumir")
	assert.Equal(t, int64(0), stockOf(t, repo, "m1"))

	err = ledger.Decrement(ctx, repo, "missing", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = ledger.Decrement(ctx, repo, "m1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDecrement_ConcurrentNeverNegative(t *testing.T) {
	store := memory.NewStore()
	repo := store.Medicines()
	ledger := inventory.NewStockLedger(zerolog.Nop())
	seedMedicine(t, repo, "m1", "Ibuprofen", 10, 1)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ledger.Decrement(context.Background(), repo, "m1", 1); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, int64(0), stockOf(t, repo, "m1"))
}

func TestApply_PrechecksAggregatedDemand(t *testing.T) {
	store := memory.NewStore()
	repo := store.Medicines()
	ledger := inventory.NewStockLedger(zerolog.Nop())
	seedMedicine(t, repo, "a", "Amoxicillin", 3, 1)
	seedMedicine(t, repo, "b", "Cetirizine", 10, 1)

	// 2 + 2 del mismo medicamento superan el stock aunque cada línea por separado no.
	_, err := ledger.Apply(context.Background(), repo, []domaininv.Line{
		{MedicineID: "b", Quantity: 1},
		{MedicineID: "a", Quantity: 2},
		{MedicineID: "a", Quantity: 2},
	})
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(4), insufficient.Requested)
	assert.Equal(t, int64(3), stockOf(t, repo, "a"))
	assert.Equal(t, int64(10), stockOf(t, repo, "b"), "nada se descuenta si el pre-chequeo falla")

	meds, err := ledger.Apply(context.Background(), repo, []domaininv.Line{
		{MedicineID: "a", Quantity: 1},
		{MedicineID: "b", Quantity: 4},
	})
	require.NoError(t, err)
	assert.Len(t, meds, 2)
	assert.Equal(t, int64(2), stockOf(t, repo, "a"))
	assert.Equal(t, int64(6), stockOf(t, repo, "b"))
}

func TestAsReferenceError(t *testing.T) {
	err := inventory.AsReferenceError(&domain.NotFoundError{Entity: "Medicine", ID: "x"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Medicine not found: x", ve.Message)

	other := &domain.InsufficientStockError{Name: "A"}
	assert.Same(t, other, inventory.AsReferenceError(other))
}
