package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillKind tipo de factura; cada tipo vive en su propia colección.
type BillKind string

const (
	BillKindCash    BillKind = "cash"
	BillKindLab     BillKind = "lab"
	BillKindMedical BillKind = "medical"
)

// Valid indica si el tipo es uno de los conocidos.
func (k BillKind) Valid() bool {
	switch k {
	case BillKindCash, BillKindLab, BillKindMedical:
		return true
	}
	return false
}

// Bill cabecera común de CashBill, LabBill y MedicalBill.
// Los servicios son subdocumentos propios de la factura.
type Bill struct {
	ID             string
	Kind           BillKind
	PatientID      string // solo cash, enlazado por la reconciliación
	Contact        string
	Name           string
	IPDNumber      string
	AdmissionDate  *time.Time
	DischargeDate  *time.Time
	Services       []BillService
	Total          decimal.Decimal
	AdvancePayment decimal.Decimal
	NetPayable     decimal.Decimal // Total - AdvancePayment cuando lo deriva el servidor
	Date           time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// BillService línea de servicio. Los campos de laboratorio y farmacia solo aplican a su tipo.
type BillService struct {
	No       int
	Service  string
	Price    decimal.Decimal
	Quantity int64
	CGST     decimal.Decimal
	SGST     decimal.Decimal
	Total    decimal.Decimal

	// LabBill
	TestID   string
	TestCode string
	TestName string

	// MedicalBill
	MedicineID string
	UniqueCode string
	Name       string
}
