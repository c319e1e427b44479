// Package analytics contiene los casos de uso de reportes de ingresos: ventas, facturas por tipo
// y pacientes, agregados por día, mes y año en una zona horaria.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/hospital-api/internal/application/dto"
	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
	"github.com/jhoicas/hospital-api/internal/domain/revenue"
)

// RevenueUseCase calcula los agregados de ingresos.
//
// Fuente de datos: RevenueRepository (consultas read-only). Si el almacén implementa
// TruncatingRevenueRepository se usa el truncado de fechas del motor; si responde
// ErrAggregationUnsupported se recalcula por rangos con el mismo resultado.
type RevenueUseCase struct {
	repo       repository.RevenueRepository
	defaultLoc *time.Location
	log        zerolog.Logger
	now        func() time.Time
}

// NewRevenueUseCase construye el caso de uso. defaultTZ es la zona IANA usada cuando la
// petición no trae ?tz (vacío = UTC).
func NewRevenueUseCase(repo repository.RevenueRepository, defaultTZ string, log zerolog.Logger) (*RevenueUseCase, error) {
	loc, err := revenue.LoadLocation(defaultTZ, time.UTC)
	if err != nil {
		return nil, err
	}
	return &RevenueUseCase{repo: repo, defaultLoc: loc, log: log, now: time.Now}, nil
}

// buckets resultado de las cuatro agregaciones de una fuente.
type buckets struct {
	day, month, year, total revenue.Split
	daily                   []revenue.Record
}

// Stats ingresos de ventas o de un tipo de factura.
func (uc *RevenueUseCase) Stats(ctx context.Context, src revenue.Source, tz string) (*dto.RevenueStatsResponse, error) {
	cal, err := uc.calendar(tz)
	if err != nil {
		return nil, err
	}
	b, err := uc.collect(ctx, src, cal)
	if err != nil {
		return nil, err
	}

	items := make([]any, 0, len(b.daily))
	dailyTotal := decimal.Zero
	for _, r := range b.daily {
		items = append(items, docResponse(r))
		dailyTotal = dailyTotal.Add(r.Amount)
	}

	return &dto.RevenueStatsResponse{
		TimeZone: cal.Location.String(),
		Revenue: dto.RevenueTotals{
			Daily:        b.day.All.Amount,
			Monthly:      b.month.All.Amount,
			Yearly:       b.year.All.Amount,
			Total:        b.total.All.Amount,
			DailyCount:   b.day.All.Count,
			MonthlyCount: b.month.All.Count,
			YearlyCount:  b.year.All.Count,
			TotalCount:   b.total.All.Count,
		},
		DailyDetails: dto.DailyDetails{
			TotalAmount: dailyTotal,
			Count:       int64(len(b.daily)),
			Items:       items,
		},
	}, nil
}

// PatientStats ingresos de pacientes con reparto IPD/OPD.
func (uc *RevenueUseCase) PatientStats(ctx context.Context, tz string) (*dto.PatientStatsResponse, error) {
	cal, err := uc.calendar(tz)
	if err != nil {
		return nil, err
	}
	b, err := uc.collect(ctx, revenue.SourcePatients, cal)
	if err != nil {
		return nil, err
	}

	patients := make([]dto.PatientResponse, 0, len(b.daily))
	dailyTotal := decimal.Zero
	for _, r := range b.daily {
		dailyTotal = dailyTotal.Add(r.Amount)
		if p, ok := r.Doc.(*entity.Patient); ok {
			patients = append(patients, dto.FromPatient(p))
		}
	}

	return &dto.PatientStatsResponse{
		TimeZone: cal.Location.String(),
		Revenue: dto.PatientRevenue{
			PeriodAmounts: amounts(b.day.All, b.month.All, b.year.All),
			IPD:           amounts(b.day.IPD, b.month.IPD, b.year.IPD),
			OPD:           amounts(b.day.OPD, b.month.OPD, b.year.OPD),
		},
		Counts: dto.PatientCounts{
			PeriodCounts: counts(b.day.All, b.month.All, b.year.All),
			IPD:          counts(b.day.IPD, b.month.IPD, b.year.IPD),
			OPD:          counts(b.day.OPD, b.month.OPD, b.year.OPD),
		},
		DailyDetails: dto.PatientDailyDetails{
			TotalAmount: dailyTotal,
			Count:       int64(len(b.daily)),
			Patients:    patients,
			DailyStart:  cal.Day.Start.UTC(),
		},
		YearlyTotalPatients: b.year.All.Count,
	}, nil
}

// PeriodAmounts sumas de día, mes y año de una fuente en la zona por defecto.
func (uc *RevenueUseCase) PeriodAmounts(ctx context.Context, src revenue.Source) (dto.PeriodAmounts, error) {
	cal := revenue.NewCalendar(uc.now(), uc.defaultLoc)

	type result struct {
		split revenue.Split
		err   error
	}
	periods := []revenue.Period{revenue.PeriodDay, revenue.PeriodMonth, revenue.PeriodYear}
	chans := make([]chan result, len(periods))
	for i, p := range periods {
		ch := make(chan result, 1)
		chans[i] = ch
		go func(p revenue.Period) {
			s, err := uc.summarize(ctx, src, p, cal)
			ch <- result{s, err}
		}(p)
	}
	splits := make([]revenue.Split, len(periods))
	for i, ch := range chans {
		r := <-ch
		if r.err != nil {
			return dto.PeriodAmounts{}, fmt.Errorf("ingresos %s: %w", src, r.err)
		}
		splits[i] = r.split
	}
	return amounts(splits[0].All, splits[1].All, splits[2].All), nil
}

func (uc *RevenueUseCase) calendar(tz string) (revenue.Calendar, error) {
	loc, err := revenue.LoadLocation(tz, uc.defaultLoc)
	if err != nil {
		return revenue.Calendar{}, domain.NewValidationError("invalid time zone: %s", tz)
	}
	return revenue.NewCalendar(uc.now(), loc), nil
}

// collect lanza en paralelo las agregaciones de día, mes, año, histórico y los registros del día.
func (uc *RevenueUseCase) collect(ctx context.Context, src revenue.Source, cal revenue.Calendar) (*buckets, error) {
	if !src.Valid() {
		return nil, fmt.Errorf("fuente de ingresos desconocida %q", src)
	}

	type splitResult struct {
		split revenue.Split
		err   error
	}
	type recordsResult struct {
		records []revenue.Record
		err     error
	}

	dayCh := make(chan splitResult, 1)
	monthCh := make(chan splitResult, 1)
	yearCh := make(chan splitResult, 1)
	totalCh := make(chan splitResult, 1)
	dailyCh := make(chan recordsResult, 1)

	go func() {
		s, err := uc.summarize(ctx, src, revenue.PeriodDay, cal)
		dayCh <- splitResult{s, err}
	}()
	go func() {
		s, err := uc.summarize(ctx, src, revenue.PeriodMonth, cal)
		monthCh <- splitResult{s, err}
	}()
	go func() {
		s, err := uc.summarize(ctx, src, revenue.PeriodYear, cal)
		yearCh <- splitResult{s, err}
	}()
	go func() {
		groups, err := uc.repo.Summarize(ctx, src, revenue.Window{})
		totalCh <- splitResult{revenue.Fold(groups), err}
	}()
	go func() {
		recs, err := uc.repo.ListInWindow(ctx, src, cal.Day)
		dailyCh <- recordsResult{recs, err}
	}()

	day := <-dayCh
	month := <-monthCh
	year := <-yearCh
	total := <-totalCh
	daily := <-dailyCh

	if day.err != nil {
		return nil, fmt.Errorf("ingresos %s: día: %w", src, day.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("ingresos %s: mes: %w", src, month.err)
	}
	if year.err != nil {
		return nil, fmt.Errorf("ingresos %s: año: %w", src, year.err)
	}
	if total.err != nil {
		return nil, fmt.Errorf("ingresos %s: histórico: %w", src, total.err)
	}
	if daily.err != nil {
		return nil, fmt.Errorf("ingresos %s: registros del día: %w", src, daily.err)
	}

	return &buckets{
		day:   day.split,
		month: month.split,
		year:  year.split,
		total: total.split,
		daily: daily.records,
	}, nil
}

// summarize agrega un periodo: truncado en el motor si está disponible, si no por rango.
func (uc *RevenueUseCase) summarize(ctx context.Context, src revenue.Source, p revenue.Period, cal revenue.Calendar) (revenue.Split, error) {
	if tr, ok := uc.repo.(repository.TruncatingRevenueRepository); ok {
		groups, err := tr.SummarizeTruncated(ctx, src, p, cal.Now, cal.Location)
		if err == nil {
			return revenue.Fold(groups), nil
		}
		if !errors.Is(err, domain.ErrAggregationUnsupported) {
			return revenue.Split{}, err
		}
		uc.log.Warn().
			Err(err).
			Str("source", string(src)).
			Str("period", string(p)).
			Str("tz", cal.Location.String()).
			Msg("agregación por truncado no soportada; se usa rango")
	}
	groups, err := uc.repo.Summarize(ctx, src, cal.Window(p))
	if err != nil {
		return revenue.Split{}, err
	}
	return revenue.Fold(groups), nil
}

// docResponse serializa el documento completo del registro con los mismos DTO de la API.
func docResponse(r revenue.Record) any {
	switch d := r.Doc.(type) {
	case *entity.Sale:
		return dto.FromSale(d)
	case *entity.Bill:
		return dto.FromBill(d)
	case *entity.Patient:
		return dto.FromPatient(d)
	default:
		return r.Doc
	}
}

func amounts(day, month, year revenue.Bucket) dto.PeriodAmounts {
	return dto.PeriodAmounts{Daily: day.Amount, Monthly: month.Amount, Yearly: year.Amount}
}

func counts(day, month, year revenue.Bucket) dto.PeriodCounts {
	return dto.PeriodCounts{Daily: day.Count, Monthly: month.Count, Yearly: year.Count}
}
