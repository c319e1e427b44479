package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClinicalNotes campos clínicos de texto libre (se aplanan en el JSON del paciente).
type ClinicalNotes struct {
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

// PatientRequest body para POST /patients y PUT /patients/:id.
// En PUT solo se aplican los campos informados (strings no vacíos y números presentes).
type PatientRequest struct {
	Name          string    `json:"name" validate:"max=200"`
	Contact       string    `json:"contact" validate:"max=32"`
	Address       string    `json:"address"`
	Age           Number    `json:"age"`
	Gender        string    `json:"gender"`
	FormType      string    `json:"formType" validate:"omitempty,oneof=IPD OPD ipd opd"`
	IPDNumber     string    `json:"ipdNumber" validate:"max=64"`
	OPDNumber     string    `json:"opdNumber" validate:"max=64"`
	Amount        Number    `json:"amount"`
	Date          DateInput `json:"date"`
	ConsultDoctor string    `json:"consultDoctor"`
	ClinicalNotes
}

// PatientResponse paciente.
type PatientResponse struct {
	ID            string          `json:"_id"`
	Name          string          `json:"name"`
	Contact       string          `json:"contact"`
	Address       string          `json:"address,omitempty"`
	Age           *int            `json:"age,omitempty"`
	Gender        string          `json:"gender,omitempty"`
	FormType      string          `json:"formType"`
	IPDNumber     string          `json:"ipdNumber,omitempty"`
	OPDNumber     string          `json:"opdNumber,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	ConsultDoctor string          `json:"consultDoctor,omitempty"`
	ClinicalNotes
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PatientListResponse GET /patients: pacientes más ingresos del periodo.
type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Revenue  PeriodAmounts     `json:"revenue"`
}
