package repository

import (
	"context"
	"time"

	"github.com/jhoicas/hospital-api/internal/domain/revenue"
)

// RevenueRepository consultas de solo lectura para los agregados de ingresos.
// Los importes nulos se suman como 0 y se cuentan igual.
type RevenueRepository interface {
	// Summarize agrega los registros con fecha en la ventana; la ventana cero es todo el histórico.
	Summarize(ctx context.Context, src revenue.Source, w revenue.Window) ([]revenue.Group, error)
	// ListInWindow registros de la ventana ordenados por fecha ascendente.
	ListInWindow(ctx context.Context, src revenue.Source, w revenue.Window) ([]revenue.Record, error)
}

// TruncatingRevenueRepository capacidad opcional: el almacén trunca fechas por periodo en una zona.
// Devuelve domain.ErrAggregationUnsupported si el motor no lo soporta.
type TruncatingRevenueRepository interface {
	SummarizeTruncated(ctx context.Context, src revenue.Source, p revenue.Period, now time.Time, loc *time.Location) ([]revenue.Group, error)
}
