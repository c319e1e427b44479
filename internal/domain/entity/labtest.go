package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LabTest dato de referencia de un examen de laboratorio.
type LabTest struct {
	ID        string
	Code      string // único
	Name      string
	Price     decimal.Decimal
	CreatedAt time.Time
}
