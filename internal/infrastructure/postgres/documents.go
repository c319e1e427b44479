package postgres

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/hospital-api/internal/domain/entity"
)

// Subdocumentos guardados en columnas JSONB (líneas de venta, servicios de factura, notas clínicas).

type saleItemDoc struct {
	MedicineID string          `json:"medicineId"`
	UniqueCode string          `json:"uniqueCode,omitempty"`
	Name       string          `json:"name,omitempty"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int64           `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
}

type serviceDoc struct {
	No         int             `json:"no"`
	Service    string          `json:"service,omitempty"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
	CGST       decimal.Decimal `json:"cgst"`
	SGST       decimal.Decimal `json:"sgst"`
	Total      decimal.Decimal `json:"total"`
	TestID     string          `json:"testId,omitempty"`
	TestCode   string          `json:"testCode,omitempty"`
	TestName   string          `json:"testName,omitempty"`
	MedicineID string          `json:"medicineId,omitempty"`
	UniqueCode string          `json:"uniqueCode,omitempty"`
	Name       string          `json:"name,omitempty"`
}

type clinicalDoc struct {
	PersonalHistory      string `json:"personalHistory,omitempty"`
	ChiefComplaints      string `json:"chiefComplaints,omitempty"`
	HistoryPresenting    string `json:"historyPresenting,omitempty"`
	PreviousHistory      string `json:"previousHistory,omitempty"`
	AllergicHistory      string `json:"allergicHistory,omitempty"`
	GCS                  string `json:"gcs,omitempty"`
	Temp                 string `json:"temp,omitempty"`
	Pulse                string `json:"pulse,omitempty"`
	BP                   string `json:"bp,omitempty"`
	SPO2                 string `json:"spo2,omitempty"`
	RBS                  string `json:"rbs,omitempty"`
	GeneralPhysicalExam  string `json:"generalPhysicalExam,omitempty"`
	CVS                  string `json:"cvs,omitempty"`
	RS                   string `json:"rs,omitempty"`
	PA                   string `json:"pa,omitempty"`
	CNS                  string `json:"cns,omitempty"`
	ProvisionalDiagnosis string `json:"provisionalDiagnosis,omitempty"`
	Pallor               string `json:"pallor,omitempty"`
	Icterus              string `json:"icterus,omitempty"`
	Clubbing             string `json:"clubbing,omitempty"`
	Cyanosis             string `json:"cyanosis,omitempty"`
	Edema                string `json:"edema,omitempty"`
}

func toSaleItemDocs(items []entity.SaleItem) []saleItemDoc {
	out := make([]saleItemDoc, 0, len(items))
	for _, it := range items {
		out = append(out, saleItemDoc(it))
	}
	return out
}

func fromSaleItemDocs(docs []saleItemDoc) []entity.SaleItem {
	out := make([]entity.SaleItem, 0, len(docs))
	for _, d := range docs {
		out = append(out, entity.SaleItem(d))
	}
	return out
}

func toServiceDocs(services []entity.BillService) []serviceDoc {
	out := make([]serviceDoc, 0, len(services))
	for _, s := range services {
		out = append(out, serviceDoc(s))
	}
	return out
}

func fromServiceDocs(docs []serviceDoc) []entity.BillService {
	out := make([]entity.BillService, 0, len(docs))
	for _, d := range docs {
		out = append(out, entity.BillService(d))
	}
	return out
}
