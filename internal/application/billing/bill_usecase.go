package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/hospital-api/internal/application/dto"
	"github.com/jhoicas/hospital-api/internal/application/inventory"
	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/billing"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	domaininv "github.com/jhoicas/hospital-api/internal/domain/inventory"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
)

// Topes de los listados por tipo de factura.
const (
	cashListLimit    = 200
	defaultListLimit = 500
)

// BillUseCase ciclo de vida (crear, consultar, actualizar, eliminar) de un tipo de factura.
//
// Orden de creación: validar identidad, validar referencias (LabTest/Medicine), descontar stock
// (solo farmacia), persistir y, solo en caja, reconciliar el paciente.
type BillUseCase struct {
	kind       entity.BillKind
	txRunner   BillingTxRunner
	bills      repository.BillRepository
	labTests   repository.LabTestRepository
	ledger     StockLedger
	reconciler *PatientReconciler
	log        zerolog.Logger
	now        func() time.Time
}

// BillDeps dependencias del caso de uso. LabTests solo se usa en laboratorio, Ledger en farmacia
// y Reconciler en caja.
type BillDeps struct {
	TxRunner   BillingTxRunner
	Bills      repository.BillRepository
	LabTests   repository.LabTestRepository
	Ledger     StockLedger
	Reconciler *PatientReconciler
	Log        zerolog.Logger
}

// NewBillUseCase construye el caso de uso para el tipo de factura de deps.Bills.
func NewBillUseCase(deps BillDeps) *BillUseCase {
	return &BillUseCase{
		kind:       deps.Bills.Kind(),
		txRunner:   deps.TxRunner,
		bills:      deps.Bills,
		labTests:   deps.LabTests,
		ledger:     deps.Ledger,
		reconciler: deps.Reconciler,
		log:        deps.Log.With().Str("bill_kind", string(deps.Bills.Kind())).Logger(),
		now:        time.Now,
	}
}

// Kind tipo de factura que gestiona el caso de uso.
func (uc *BillUseCase) Kind() entity.BillKind {
	return uc.kind
}

// Create crea la factura. Para caja devuelve también el paciente reconciliado (nil si la
// reconciliación falló; la factura queda guardada igual).
func (uc *BillUseCase) Create(ctx context.Context, in dto.CreateBillRequest) (*dto.BillResponse, *dto.PatientResponse, error) {
	contact := strings.TrimSpace(in.Contact)
	name := strings.TrimSpace(in.Name)
	if err := uc.validateIdentity(contact, name); err != nil {
		return nil, nil, err
	}

	services, err := buildServices(in.Services)
	if err != nil {
		return nil, nil, err
	}
	if uc.kind == entity.BillKindLab {
		if err := uc.resolveLabTests(ctx, services); err != nil {
			return nil, nil, err
		}
	}

	now := uc.now()
	bill := &entity.Bill{
		ID:             uuid.New().String(),
		Kind:           uc.kind,
		Contact:        contact,
		Name:           name,
		IPDNumber:      strings.TrimSpace(in.IPDNumber),
		AdmissionDate:  billing.ParseDatePtr(in.AdmissionDate.Raw),
		DischargeDate:  billing.ParseDatePtr(in.DischargeDate.Raw),
		Services:       services,
		AdvancePayment: in.AdvancePayment.Or(decimal.Zero),
		Date:           now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if d := billing.ParseDatePtr(in.Date.Raw); d != nil {
		bill.Date = *d
	}
	billing.ApplyDerived(bill, in.Total.Ptr(), in.NetPayable.Ptr())

	lines := uc.stockLines(services, in.SkipStock)
	err = uc.txRunner.RunBilling(ctx, uc.kind, func(medicineRepo repository.MedicineRepository, billRepo repository.BillRepository) error {
		if len(lines) > 0 {
			if _, err := uc.ledger.Apply(ctx, medicineRepo, lines); err != nil {
				return inventory.AsReferenceError(err)
			}
		}
		return billRepo.Create(ctx, bill)
	})
	if err != nil {
		return nil, nil, err
	}

	var patient *dto.PatientResponse
	if uc.kind == entity.BillKindCash {
		patient = uc.syncPatient(ctx, bill, ReconcileInput{
			Contact:   bill.Contact,
			Name:      bill.Name,
			IPDNumber: bill.IPDNumber,
			Date:      bill.AdmissionDate,
			Amount:    &bill.Total,
		})
	}

	out := dto.FromBill(bill)
	return &out, patient, nil
}

// GetByID obtiene una factura.
func (uc *BillUseCase) GetByID(ctx context.Context, id string) (*dto.BillResponse, error) {
	b, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromBill(b)
	return &out, nil
}

// List filtra por contacto (subcadena, sin distinguir mayúsculas), más recientes primero.
func (uc *BillUseCase) List(ctx context.Context, contact string) ([]dto.BillResponse, error) {
	limit := defaultListLimit
	if uc.kind == entity.BillKindCash {
		limit = cashListLimit
	}
	list, err := uc.bills.List(ctx, strings.TrimSpace(contact), limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BillResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.FromBill(b))
	}
	return out, nil
}

// Update aplica una actualización parcial. Fechas no interpretables se descartan del cambio
// (el valor guardado se conserva); una fecha vacía o null la limpia. No afecta el stock.
func (uc *BillUseCase) Update(ctx context.Context, id string, in dto.UpdateBillRequest) (*dto.BillResponse, error) {
	b, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Contact != nil {
		c := strings.TrimSpace(*in.Contact)
		if c == "" {
			return nil, domain.NewValidationError("contact cannot be empty")
		}
		b.Contact = c
	}
	if in.Name != nil {
		n := strings.TrimSpace(*in.Name)
		if n == "" {
			return nil, domain.NewValidationError("name cannot be empty")
		}
		b.Name = n
	}
	if in.IPDNumber != nil {
		b.IPDNumber = strings.TrimSpace(*in.IPDNumber)
	}

	admission, admissionChanged := applyDate(&b.AdmissionDate, in.AdmissionDate)
	applyDate(&b.DischargeDate, in.DischargeDate)
	if d := billing.ParseDatePtr(in.Date.Raw); d != nil {
		b.Date = *d
	}

	servicesChanged := false
	if in.Services != nil {
		services, err := buildServices(*in.Services)
		if err != nil {
			return nil, err
		}
		if uc.kind == entity.BillKindLab {
			if err := uc.resolveLabTests(ctx, services); err != nil {
				return nil, err
			}
		}
		b.Services = services
		servicesChanged = true
	}

	if in.AdvancePayment.Set {
		b.AdvancePayment = in.AdvancePayment.Value
	}
	switch {
	case in.Total.Set:
		b.Total = in.Total.Value
	case servicesChanged:
		b.Total = billing.SumServices(b.Services)
	}
	switch {
	case in.NetPayable.Set:
		b.NetPayable = in.NetPayable.Value
	case in.Total.Set || in.AdvancePayment.Set || servicesChanged:
		b.NetPayable = billing.NetPayable(b.Total, b.AdvancePayment)
	}

	b.UpdatedAt = uc.now()
	if err := uc.bills.Update(ctx, b); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.NotFoundError{Entity: "Bill"}
		}
		return nil, err
	}

	if uc.kind == entity.BillKindCash && in.Contact != nil {
		rin := ReconcileInput{Contact: b.Contact, Amount: in.Total.Ptr()}
		if in.Name != nil {
			rin.Name = *in.Name
		}
		if in.IPDNumber != nil {
			rin.IPDNumber = *in.IPDNumber
		}
		if admissionChanged {
			rin.Date = admission
		}
		uc.syncPatient(ctx, b, rin)
	}

	out := dto.FromBill(b)
	return &out, nil
}

// Delete elimina la factura. El stock descontado al crearla no se repone.
func (uc *BillUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.bills.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.NotFoundError{Entity: "Bill"}
		}
		return err
	}
	return nil
}

// syncPatient reconcilia el paciente y enlaza la factura. Cualquier error se registra y se ignora.
func (uc *BillUseCase) syncPatient(ctx context.Context, bill *entity.Bill, in ReconcileInput) *dto.PatientResponse {
	if uc.reconciler == nil {
		return nil
	}
	p, err := uc.reconciler.Reconcile(ctx, in)
	if err != nil {
		uc.log.Warn().Err(err).Str("bill_id", bill.ID).Str("contact", bill.Contact).Msg("no se pudo sincronizar el paciente de la factura")
		return nil
	}
	if bill.PatientID != p.ID {
		bill.PatientID = p.ID
		if err := uc.bills.Update(ctx, bill); err != nil {
			uc.log.Warn().Err(err).Str("bill_id", bill.ID).Str("patient_id", p.ID).Msg("no se pudo enlazar el paciente a la factura")
		}
	}
	out := dto.FromPatient(p)
	return &out
}

func (uc *BillUseCase) validateIdentity(contact, name string) error {
	if uc.kind == entity.BillKindCash {
		if contact == "" {
			return domain.NewValidationError("contact is required")
		}
		if name == "" {
			return domain.NewValidationError("name is required")
		}
		return nil
	}
	if contact == "" || name == "" {
		return domain.NewValidationError("contact and name are required")
	}
	return nil
}

// resolveLabTests valida que cada testId exista y completa código y nombre si vienen vacíos.
func (uc *BillUseCase) resolveLabTests(ctx context.Context, services []entity.BillService) error {
	for i := range services {
		s := &services[i]
		if s.TestID == "" {
			continue
		}
		t, err := uc.labTests.GetByID(ctx, s.TestID)
		if err != nil {
			return err
		}
		if t == nil {
			return domain.NewValidationError("Lab test not found: %s", s.TestID)
		}
		if s.TestCode == "" {
			s.TestCode = t.Code
		}
		if s.TestName == "" {
			s.TestName = t.Name
		}
	}
	return nil
}

func (uc *BillUseCase) stockLines(services []entity.BillService, skipStock bool) []domaininv.Line {
	if uc.kind != entity.BillKindMedical || skipStock {
		return nil
	}
	var lines []domaininv.Line
	for _, s := range services {
		if s.MedicineID == "" {
			continue
		}
		lines = append(lines, domaininv.Line{MedicineID: s.MedicineID, Quantity: s.Quantity})
	}
	return lines
}

func (uc *BillUseCase) find(ctx context.Context, id string) (*entity.Bill, error) {
	b, err := uc.bills.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, &domain.NotFoundError{Entity: "Bill"}
	}
	return b, nil
}

func buildServices(in []dto.BillServiceRequest) ([]entity.BillService, error) {
	out := make([]entity.BillService, 0, len(in))
	for i, s := range in {
		if s.Quantity.Set && (!s.Quantity.Value.IsInteger() || s.Quantity.Value.IsNegative()) {
			return nil, domain.NewValidationError("quantity must be a non-negative integer")
		}
		no := i + 1
		if s.No.Set {
			no = int(s.No.Value.IntPart())
		}
		price := s.Price.Or(decimal.Zero)
		qty := s.Quantity.Int64()
		out = append(out, entity.BillService{
			No:         no,
			Service:    s.Service,
			Price:      price,
			Quantity:   qty,
			CGST:       s.CGST.Or(decimal.Zero),
			SGST:       s.SGST.Or(decimal.Zero),
			Total:      billing.LineTotal(price, qty, s.Total.Ptr()),
			TestID:     strings.TrimSpace(s.TestID),
			TestCode:   s.TestCode,
			TestName:   s.TestName,
			MedicineID: strings.TrimSpace(s.MedicineID),
			UniqueCode: s.UniqueCode,
			Name:       s.Name,
		})
	}
	return out, nil
}

// applyDate aplica una fecha entrante sobre dst. Devuelve la fecha resultante y si cambió.
func applyDate(dst **time.Time, in dto.DateInput) (*time.Time, bool) {
	if !in.Present {
		return *dst, false
	}
	raw := strings.TrimSpace(in.Raw)
	if raw == "" || raw == "null" {
		*dst = nil
		return nil, true
	}
	d := billing.ParseDatePtr(raw)
	if d == nil {
		return *dst, false
	}
	*dst = d
	return d, true
}
