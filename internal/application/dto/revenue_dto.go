package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodAmounts sumas por periodo.
type PeriodAmounts struct {
	Daily   decimal.Decimal `json:"daily"`
	Monthly decimal.Decimal `json:"monthly"`
	Yearly  decimal.Decimal `json:"yearly"`
}

// PeriodCounts conteos por periodo.
type PeriodCounts struct {
	Daily   int64 `json:"daily"`
	Monthly int64 `json:"monthly"`
	Yearly  int64 `json:"yearly"`
}

// RevenueTotals bloque "revenue" de ventas y facturas.
type RevenueTotals struct {
	Daily        decimal.Decimal `json:"daily"`
	Monthly      decimal.Decimal `json:"monthly"`
	Yearly       decimal.Decimal `json:"yearly"`
	Total        decimal.Decimal `json:"total"`
	DailyCount   int64           `json:"dailyCount"`
	MonthlyCount int64           `json:"monthlyCount"`
	YearlyCount  int64           `json:"yearlyCount"`
	TotalCount   int64           `json:"totalCount"`
}

// DailyDetails registros del día ordenados por fecha ascendente.
type DailyDetails struct {
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Count       int64           `json:"count"`
	Items       []any           `json:"items"`
}

// RevenueStatsResponse GET /sale/sales/revenue y GET /{bill}/revenue/stats.
type RevenueStatsResponse struct {
	TimeZone     string        `json:"timeZone"`
	Revenue      RevenueTotals `json:"revenue"`
	DailyDetails DailyDetails  `json:"dailyDetails"`
}

// PatientRevenue sumas totales y separadas por IPD/OPD.
type PatientRevenue struct {
	PeriodAmounts
	IPD PeriodAmounts `json:"ipd"`
	OPD PeriodAmounts `json:"opd"`
}

// PatientCounts conteos totales y separados por IPD/OPD.
type PatientCounts struct {
	PeriodCounts
	IPD PeriodCounts `json:"ipd"`
	OPD PeriodCounts `json:"opd"`
}

// PatientDailyDetails pacientes del día.
type PatientDailyDetails struct {
	TotalAmount decimal.Decimal   `json:"totalAmount"`
	Count       int64             `json:"count"`
	Patients    []PatientResponse `json:"patients"`
	DailyStart  time.Time         `json:"dailyStart"`
}

// PatientStatsResponse GET /patients/stats.
type PatientStatsResponse struct {
	TimeZone            string              `json:"timeZone"`
	Revenue             PatientRevenue      `json:"revenue"`
	Counts              PatientCounts       `json:"counts"`
	DailyDetails        PatientDailyDetails `json:"dailyDetails"`
	YearlyTotalPatients int64               `json:"yearlyTotalPatients"`
}
