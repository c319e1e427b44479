package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrAggregationUnsupported = errors.New("el almacén no soporta agregación por truncado de fecha")
)

// ValidationError entrada faltante o mal formada. El mensaje se devuelve tal cual al cliente.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError con formato.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError un id referenciado no existe. Entity es el nombre legible ("Medicine", "Patient").
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError violación de una clave única (Medicine.code, Patient.ipdNumber, LabTest.code).
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string { return e.Field + " already exists" }

func (e *ConflictError) Unwrap() error { return ErrConflict }

// InsufficientStockError el descuento dejaría el stock en negativo.
type InsufficientStockError struct {
	MedicineID string
	Name       string
	Requested  int64
	Available  int64
}

func (e *InsufficientStockError) Error() string {
	return "Insufficient stock for " + e.Name
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
