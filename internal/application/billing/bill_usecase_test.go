package billing_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hospital-api/internal/application/billing"
	"github.com/jhoicas/hospital-api/internal/application/dto"
	"github.com/jhoicas/hospital-api/internal/application/inventory"
	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
	"github.com/jhoicas/hospital-api/internal/infrastructure/memory"
)

type fixture struct {
	store      *memory.Store
	patients   repository.PatientRepository
	reconciler *billing.PatientReconciler
}

func newFixture() *fixture {
	store := memory.NewStore()
	f := &fixture{store: store, patients: store.Patients()}
	f.reconciler = billing.NewPatientReconciler(f.patients, nil, zerolog.Nop())
	return f
}

func (f *fixture) bills(kind entity.BillKind) *billing.BillUseCase {
	return billing.NewBillUseCase(billing.BillDeps{
		TxRunner:   memory.NewTxRunner(f.store),
		Bills:      f.store.Bills(kind),
		LabTests:   f.store.LabTests(),
		Ledger:     inventory.NewStockLedger(zerolog.Nop()),
		Reconciler: f.reconciler,
		Log:        zerolog.Nop(),
	})
}

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLabBill_UnknownTestIsRejectedAndNotPersisted(t *testing.T) {
	f := newFixture()
	uc := f.bills(entity.BillKindLab)

	_, _, err := uc.Create(context.Background(), decode[dto.CreateBillRequest](t,
		`{"contact":"900","name":"Meera","services":[{"testId":"ghost","price":100,"quantity":1}]}`))
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Lab test not found: ghost", ve.Message)

	list, err := uc.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreate_IdentityValidation(t *testing.T) {
	f := newFixture()
	_, _, err := f.bills(entity.BillKindCash).Create(context.Background(), decode[dto.CreateBillRequest](t, `{"contact":"900"}`))
	assert.EqualError(t, err, "name is required")

	_, _, err = f.bills(entity.BillKindMedical).Create(context.Background(), decode[dto.CreateBillRequest](t, `{"name":"X"}`))
	assert.EqualError(t, err, "contact and name are required")
}

func TestCreate_DerivesTotals(t *testing.T) {
	f := newFixture()
	uc := f.bills(entity.BillKindLab)

	out, _, err := uc.Create(context.Background(), decode[dto.CreateBillRequest](t, `{
		"contact":"900","name":"Meera","advancePayment":"250",
		"services":[{"service":"CBC","price":300,"quantity":2},{"service":"LFT","price":400,"quantity":1}]
	}`))
	require.NoError(t, err)
	assert.True(t, dec("1000").Equal(out.Total), out.Total.String())
	assert.True(t, dec("750").Equal(out.NetPayable), "netPayable = total - advancePayment")
	assert.True(t, dec("600").Equal(out.Services[0].Total))
	assert.Equal(t, 2, out.Services[1].No)

	out, _, err = uc.Create(context.Background(), decode[dto.CreateBillRequest](t,
		`{"contact":"900","name":"Meera","total":500,"advancePayment":100,"netPayable":450}`))
	require.NoError(t, err)
	assert.True(t, dec("500").Equal(out.Total))
	assert.True(t, dec("450").Equal(out.NetPayable), "un netPayable explícito se respeta")

	_, _, err = uc.Create(context.Background(), decode[dto.CreateBillRequest](t,
		`{"contact":"900","name":"Meera","services":[{"price":1,"quantity":-1}]}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCashBill_UpdateKeepsStoredDateWhenUnparseable(t *testing.T) {
	f := newFixture()
	uc := f.bills(entity.BillKindCash)

	created, _, err := uc.Create(context.Background(), decode[dto.CreateBillRequest](t,
		`{"contact":"900","name":"Asha","admissionDate":"2026-02-10","total":100}`))
	require.NoError(t, err)
	require.NotNil(t, created.AdmissionDate)
	want := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	updated, err := uc.Update(context.Background(), created.ID, decode[dto.UpdateBillRequest](t,
		`{"admissionDate":"not a date","name":"Asha R"}`))
	require.NoError(t, err)
	require.NotNil(t, updated.AdmissionDate)
	assert.True(t, want.Equal(*updated.AdmissionDate))
	assert.Equal(t, "Asha R", updated.Name)

	updated, err = uc.Update(context.Background(), created.ID, decode[dto.UpdateBillRequest](t, `{"admissionDate":"15/03/2026"}`))
	require.NoError(t, err)
	assert.True(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC).Equal(*updated.AdmissionDate))

	updated, err = uc.Update(context.Background(), created.ID, decode[dto.UpdateBillRequest](t, `{"admissionDate":null}`))
	require.NoError(t, err)
	assert.Nil(t, updated.AdmissionDate, "null limpia la fecha")
}

func TestUpdate_RecomputesTotalsFromServices(t *testing.T) {
	f := newFixture()
	uc := f.bills(entity.BillKindCash)
	created, _, err := uc.Create(context.Background(), decode[dto.CreateBillRequest](t,
		`{"contact":"900","name":"Asha","advancePayment":50,"services":[{"price":100,"quantity":1}]}`))
	require.NoError(t, err)

	updated, err := uc.Update(context.Background(), created.ID, decode[dto.UpdateBillRequest](t,
		`{"services":[{"price":100,"quantity":3}]}`))
	require.NoError(t, err)
	assert.True(t, dec("300").Equal(updated.Total))
	assert.True(t, dec("250").Equal(updated.NetPayable))

	updated, err = uc.Update(context.Background(), created.ID, decode[dto.UpdateBillRequest](t, `{"advancePayment":"300"}`))
	require.NoError(t, err)
	assert.True(t, dec("0").Equal(updated.NetPayable))

	_, err = uc.Update(context.Background(), created.ID, decode[dto.UpdateBillRequest](t, `{"contact":"  "}`))
	assert.EqualError(t, err, "contact cannot be empty")

	_, err = uc.Update(context.Background(), "missing", decode[dto.UpdateBillRequest](t, `{}`))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCashBill_ReconcilesOnePatientPerContact(t *testing.T) {
	f := newFixture()
	uc := f.bills(entity.BillKindCash)
	ctx := context.Background()

	b1, p1, err := uc.Create(ctx, decode[dto.CreateBillRequest](t, `{"contact":"900","name":"Asha","total":100}`))
	require.NoError(t, err)
	require.NotNil(t, p1)
	assert.Equal(t, entity.FormTypeIPD, p1.FormType)

	_, p2, err := uc.Create(ctx, decode[dto.CreateBillRequest](t,
		`{"contact":"900","name":"Asha K","ipdNumber":"IPD-4","admissionDate":"2026-01-05","total":0}`))
	require.NoError(t, err)
	require.NotNil(t, p2)
	assert.Equal(t, p1.ID, p2.ID)
	assert.Equal(t, "Asha K", p2.Name)
	assert.Equal(t, "IPD-4", p2.IPDNumber)
	assert.True(t, dec("100").Equal(p2.Amount), "un importe cero no sobrescribe")
	assert.True(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC).Equal(p2.Date))

	all, err := f.patients.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	stored, err := uc.GetByID(ctx, b1.ID)
	require.NoError(t, err)
	assert.Equal(t, p1.ID, stored.PatientID)

	_, err = uc.Update(ctx, b1.ID, decode[dto.UpdateBillRequest](t, `{"contact":"900","name":"Asha Kumari","total":900}`))
	require.NoError(t, err)
	p, err := f.patients.FindByContact(ctx, "900")
	require.NoError(t, err)
	assert.Equal(t, "Asha Kumari", p.Name)
	assert.True(t, dec("900").Equal(p.Amount))
}

// failingPatients rechaza cualquier alta de paciente.
type failingPatients struct {
	repository.PatientRepository
}

func (failingPatients) Create(context.Context, *entity.Patient) error {
	return errors.New("patients collection unavailable")
}

func TestCashBill_ReconciliationFailureKeepsBill(t *testing.T) {
	f := newFixture()
	f.reconciler = billing.NewPatientReconciler(failingPatients{f.store.Patients()}, nil, zerolog.Nop())
	uc := f.bills(entity.BillKindCash)

	bill, patient, err := uc.Create(context.Background(), decode[dto.CreateBillRequest](t, `{"contact":"901","name":"Ravi","total":10}`))
	require.NoError(t, err)
	assert.Nil(t, patient)
	assert.Empty(t, bill.PatientID)

	stored, err := uc.GetByID(context.Background(), bill.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", stored.Name)
}

func TestMedicalBill_StockEffects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	meds := f.store.Medicines()
	require.NoError(t, meds.Create(ctx, &entity.Medicine{ID: "a", Code: "A", Name: "Amoxicillin", Stock: 5}))
	require.NoError(t, meds.Create(ctx, &entity.Medicine{ID: "b", Code: "B", Name: "Cetirizine", Stock: 1}))
	uc := f.bills(entity.BillKindMedical)

	_, _, err := uc.Create(ctx, decode[dto.CreateBillRequest](t, `{"contact":"902","name":"Kiran",
		"services":[{"medicineId":"a","price":10,"quantity":2},{"medicineId":"b","price":5,"quantity":2}]}`))
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Cetirizine", insufficient.Name)
	a, _ := meds.GetByID(ctx, "a")
	assert.Equal(t, int64(5), a.Stock, "ningún descuento parcial")

	_, _, err = uc.Create(ctx, decode[dto.CreateBillRequest](t, `{"contact":"902","name":"Kiran",
		"services":[{"medicineId":"zzz","quantity":1}]}`))
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Medicine not found: zzz", ve.Message)

	out, _, err := uc.Create(ctx, decode[dto.CreateBillRequest](t, `{"contact":"902","name":"Kiran",
		"services":[{"medicineId":"a","price":10,"quantity":2},{"service":"Dressing","price":40,"quantity":1}]}`))
	require.NoError(t, err)
	assert.True(t, dec("60").Equal(out.Total))
	a, _ = meds.GetByID(ctx, "a")
	assert.Equal(t, int64(3), a.Stock)

	_, _, err = uc.Create(ctx, decode[dto.CreateBillRequest](t, `{"contact":"902","name":"Kiran","skipStock":true,
		"services":[{"medicineId":"zzz","quantity":99}]}`))
	require.NoError(t, err, "skipStock omite stock y referencias")

	require.NoError(t, uc.Delete(ctx, out.ID))
	a, _ = meds.GetByID(ctx, "a")
	assert.Equal(t, int64(3), a.Stock, "eliminar no repone stock")
	assert.ErrorIs(t, uc.Delete(ctx, out.ID), domain.ErrNotFound)

	list, err := uc.List(ctx, "90")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLabBill_FillsTestCodeAndName(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.store.LabTests().Create(ctx, &entity.LabTest{ID: "t1", Code: "CBC", Name: "Complete Blood Count"}))

	out, _, err := f.bills(entity.BillKindLab).Create(ctx, decode[dto.CreateBillRequest](t,
		`{"contact":"903","name":"Meera","services":[{"testId":"t1","price":250,"quantity":1}]}`))
	require.NoError(t, err)
	assert.Equal(t, "CBC", out.Services[0].TestCode)
	assert.Equal(t, "Complete Blood Count", out.Services[0].TestName)
}
