package main

import (
	"context"

	"github.com/jhoicas/hospital-api/internal/application/billing"
	"github.com/jhoicas/hospital-api/internal/application/inventory"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
	"github.com/jhoicas/hospital-api/internal/infrastructure/memory"
	"github.com/jhoicas/hospital-api/internal/infrastructure/postgres"
	"github.com/jhoicas/hospital-api/pkg/config"
)

// txRunner transacciones de ventas y de facturas sobre el mismo almacén.
type txRunner interface {
	inventory.TxRunner
	billing.BillingTxRunner
}

// storage repositorios del driver elegido en STORE_DRIVER.
type storage struct {
	medicines repository.MedicineRepository
	sales     repository.SaleRepository
	bills     func(entity.BillKind) repository.BillRepository
	patients  repository.PatientRepository
	labTests  repository.LabTestRepository
	users     repository.UserRepository
	revenue   repository.RevenueRepository
	txRunner  txRunner
	close     func()
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.App.StoreDriver == config.StoreDriverMemory {
		s := memory.NewStore()
		return &storage{
			medicines: s.Medicines(),
			sales:     s.Sales(),
			bills:     func(k entity.BillKind) repository.BillRepository { return s.Bills(k) },
			patients:  s.Patients(),
			labTests:  s.LabTests(),
			users:     s.Users(),
			revenue:   s.Revenue(),
			txRunner:  memory.NewTxRunner(s),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		medicines: postgres.NewMedicineRepository(pool),
		sales:     postgres.NewSaleRepository(pool),
		bills:     func(k entity.BillKind) repository.BillRepository { return postgres.NewBillRepository(pool, k) },
		patients:  postgres.NewPatientRepository(pool),
		labTests:  postgres.NewLabTestRepository(pool),
		users:     postgres.NewUserRepository(pool),
		revenue:   postgres.NewRevenueRepository(pool),
		txRunner:  postgres.NewTxRunner(pool),
		close:     pool.Close,
	}, nil
}
