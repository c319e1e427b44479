package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clasificación de pacientes.
const (
	FormTypeIPD = "IPD"
	FormTypeOPD = "OPD"
)

// Patient registro de visita de un paciente. Contact no es único; IPDNumber sí (cuando no está vacío).
type Patient struct {
	ID            string
	Name          string
	Contact       string
	Address       string
	Age           *int
	Gender        string
	FormType      string // IPD | OPD
	IPDNumber     string
	OPDNumber     string
	Amount        decimal.Decimal
	Date          time.Time // fecha del evento, distinta de CreatedAt
	ConsultDoctor string
	Clinical      ClinicalNotes
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ClinicalNotes campos clínicos de texto libre; no intervienen en facturación.
type ClinicalNotes struct {
	PersonalHistory      string
	ChiefComplaints      string
	HistoryPresenting    string
	PreviousHistory      string
	AllergicHistory      string
	GCS                  string
	Temp                 string
	Pulse                string
	BP                   string
	SPO2                 string
	RBS                  string
	GeneralPhysicalExam  string
	CVS                  string
	RS                   string
	PA                   string
	CNS                  string
	ProvisionalDiagnosis string
	Pallor               string
	Icterus              string
	Clubbing             string
	Cyanosis             string
	Edema                string
}
