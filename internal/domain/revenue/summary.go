package revenue

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/hospital-api/internal/domain/entity"
)

// Source colección sobre la que se agregan ingresos.
type Source string

const (
	SourceSales        Source = "sales"
	SourceCashBills    Source = "cash_bills"
	SourceLabBills     Source = "lab_bills"
	SourceMedicalBills Source = "medical_bills"
	SourcePatients     Source = "patients"
)

// Valid indica si la fuente es conocida.
func (s Source) Valid() bool {
	switch s {
	case SourceSales, SourceCashBills, SourceLabBills, SourceMedicalBills, SourcePatients:
		return true
	}
	return false
}

// Group suma parcial devuelta por el almacén. Para pacientes trae los datos de clasificación
// (formType y los prefijos de ipd/opd); para las demás fuentes van vacíos.
type Group struct {
	FormType  string
	IPDNumber string
	OPDNumber string
	Amount    decimal.Decimal
	Count     int64
}

// Class clasificación IPD/OPD del grupo.
func (g Group) Class() string {
	return ClassifyFormType(g.FormType, g.IPDNumber, g.OPDNumber)
}

// Bucket suma y conteo de un periodo.
type Bucket struct {
	Amount decimal.Decimal
	Count  int64
}

// Add acumula otro bucket.
func (b Bucket) Add(o Bucket) Bucket {
	return Bucket{Amount: b.Amount.Add(o.Amount), Count: b.Count + o.Count}
}

// Split bucket total más su reparto IPD/OPD.
type Split struct {
	All Bucket
	IPD Bucket
	OPD Bucket
}

// Fold combina los grupos en un Split. Los importes nulos ya llegan como 0.
func Fold(groups []Group) Split {
	var s Split
	for _, g := range groups {
		b := Bucket{Amount: g.Amount, Count: g.Count}
		s.All = s.All.Add(b)
		if g.Class() == entity.FormTypeOPD {
			s.OPD = s.OPD.Add(b)
		} else {
			s.IPD = s.IPD.Add(b)
		}
	}
	return s
}

// Record registro individual del día. Doc es la entidad completa (*entity.Sale, *entity.Bill o *entity.Patient).
type Record struct {
	ID     string
	Date   time.Time
	Amount decimal.Decimal
	Doc    any
}
