package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillServiceRequest línea de servicio de una factura.
type BillServiceRequest struct {
	No       Number `json:"no"`
	Service  string `json:"service"`
	Price    Number `json:"price"`
	Quantity Number `json:"quantity"`
	CGST     Number `json:"cgst"`
	SGST     Number `json:"sgst"`
	Total    Number `json:"total"`

	TestID   string `json:"testId"`
	TestCode string `json:"testCode"`
	TestName string `json:"testName"`

	MedicineID string `json:"medicineId"`
	UniqueCode string `json:"uniqueCode"`
	Name       string `json:"name"`
}

// CreateBillRequest body para POST /cashbills, /labbills y /medicalbills.
type CreateBillRequest struct {
	Contact        string               `json:"contact"`
	Name           string               `json:"name"`
	IPDNumber      string               `json:"ipdNumber"`
	AdmissionDate  DateInput            `json:"admissionDate"`
	DischargeDate  DateInput            `json:"dischargeDate"`
	Date           DateInput            `json:"date"`
	Services       []BillServiceRequest `json:"services" validate:"dive"`
	Total          Number               `json:"total"`
	AdvancePayment Number               `json:"advancePayment"`
	NetPayable     Number               `json:"netPayable"`
	SkipStock      bool                 `json:"skipStock"` // solo MedicalBill
}

// UpdateBillRequest body parcial para PUT /{bill}/:id. Campos ausentes no se tocan.
type UpdateBillRequest struct {
	Contact        *string               `json:"contact"`
	Name           *string               `json:"name"`
	IPDNumber      *string               `json:"ipdNumber"`
	AdmissionDate  DateInput             `json:"admissionDate"`
	DischargeDate  DateInput             `json:"dischargeDate"`
	Date           DateInput             `json:"date"`
	Services       *[]BillServiceRequest `json:"services"`
	Total          Number                `json:"total"`
	AdvancePayment Number                `json:"advancePayment"`
	NetPayable     Number                `json:"netPayable"`
}

// BillServiceResponse línea de servicio persistida.
type BillServiceResponse struct {
	No       int             `json:"no"`
	Service  string          `json:"service"`
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
	CGST     decimal.Decimal `json:"cgst"`
	SGST     decimal.Decimal `json:"sgst"`
	Total    decimal.Decimal `json:"total"`

	TestID   string `json:"testId,omitempty"`
	TestCode string `json:"testCode,omitempty"`
	TestName string `json:"testName,omitempty"`

	MedicineID string `json:"medicineId,omitempty"`
	UniqueCode string `json:"uniqueCode,omitempty"`
	Name       string `json:"name,omitempty"`
}

// BillResponse factura de cualquier tipo.
type BillResponse struct {
	ID             string                `json:"_id"`
	PatientID      string                `json:"patientId,omitempty"`
	Contact        string                `json:"contact"`
	Name           string                `json:"name"`
	IPDNumber      string                `json:"ipdNumber,omitempty"`
	AdmissionDate  *time.Time            `json:"admissionDate,omitempty"`
	DischargeDate  *time.Time            `json:"dischargeDate,omitempty"`
	Services       []BillServiceResponse `json:"services"`
	Total          decimal.Decimal       `json:"total"`
	AdvancePayment decimal.Decimal       `json:"advancePayment"`
	NetPayable     decimal.Decimal       `json:"netPayable"`
	Date           time.Time             `json:"date"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// CashBillCreatedResponse respuesta de POST /cashbills: la factura y el paciente reconciliado.
// Patient es null si la reconciliación falló (la factura igual queda guardada).
type CashBillCreatedResponse struct {
	Bill    *BillResponse    `json:"bill"`
	Patient *PatientResponse `json:"patient"`
}

// CreateLabTestRequest body para POST /labtests.
type CreateLabTestRequest struct {
	Code  string `json:"code" validate:"required,max=64"`
	Name  string `json:"name" validate:"required,max=200"`
	Price Number `json:"price"`
}

// LabTestResponse examen de laboratorio.
type LabTestResponse struct {
	ID    string          `json:"_id"`
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}
