package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
	"github.com/jhoicas/hospital-api/internal/domain/revenue"
	"github.com/jhoicas/hospital-api/internal/infrastructure/memory"
)

var fixedNow = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

func newUseCase(t *testing.T, repo repository.RevenueRepository) *RevenueUseCase {
	t.Helper()
	uc, err := NewRevenueUseCase(repo, "UTC", zerolog.Nop())
	require.NoError(t, err)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func seedSales(t *testing.T, store *memory.Store) {
	t.Helper()
	// En IST (UTC+5:30) las dos primeras caen el 15 y la de 2025-12-31 20:00 UTC cae en 2026.
	sales := []struct {
		at     time.Time
		amount int64
	}{
		{time.Date(2026, 3, 15, 2, 0, 0, 0, time.UTC), 100},
		{time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC), 50},
		{time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 30},
		{time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC), 20},
		{time.Date(2025, 12, 31, 20, 0, 0, 0, time.UTC), 7},
		{time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), 3},
	}
	for i, s := range sales {
		require.NoError(t, store.Sales().Create(context.Background(), &entity.Sale{
			ID:          fmt.Sprintf("sale-%d", i),
			TotalAmount: decimal.NewFromInt(s.amount),
			Date:        s.at,
			CreatedAt:   s.at,
		}))
	}
}

func TestStats_WindowsFollowRequestedZone(t *testing.T) {
	store := memory.NewStore()
	seedSales(t, store)
	uc := newUseCase(t, store.Revenue())

	ist, err := uc.Stats(context.Background(), revenue.SourceSales, "Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", ist.TimeZone)
	assert.True(t, decimal.NewFromInt(150).Equal(ist.Revenue.Daily), ist.Revenue.Daily.String())
	assert.True(t, decimal.NewFromInt(180).Equal(ist.Revenue.Monthly))
	assert.True(t, decimal.NewFromInt(207).Equal(ist.Revenue.Yearly))
	assert.True(t, decimal.NewFromInt(210).Equal(ist.Revenue.Total))
	assert.Equal(t, int64(2), ist.Revenue.DailyCount)
	assert.Equal(t, int64(6), ist.Revenue.TotalCount)
	assert.Equal(t, int64(2), ist.DailyDetails.Count)
	assert.True(t, decimal.NewFromInt(150).Equal(ist.DailyDetails.TotalAmount))
	require.Len(t, ist.DailyDetails.Items, 2)

	utc, err := uc.Stats(context.Background(), revenue.SourceSales, "")
	require.NoError(t, err)
	assert.Equal(t, "UTC", utc.TimeZone)
	assert.True(t, decimal.NewFromInt(100).Equal(utc.Revenue.Daily))
	assert.True(t, decimal.NewFromInt(180).Equal(utc.Revenue.Monthly))
	assert.True(t, decimal.NewFromInt(200).Equal(utc.Revenue.Yearly))
	assert.Equal(t, int64(1), utc.Revenue.DailyCount)
}

func TestStats_InvalidZone(t *testing.T) {
	uc := newUseCase(t, memory.NewStore().Revenue())
	_, err := uc.Stats(context.Background(), revenue.SourceSales, "Not/AZone")
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "invalid time zone: Not/AZone", ve.Message)
}

func TestStats_EmptySourceIsZero(t *testing.T) {
	uc := newUseCase(t, memory.NewStore().Revenue())
	out, err := uc.Stats(context.Background(), revenue.SourceLabBills, "")
	require.NoError(t, err)
	assert.True(t, out.Revenue.Total.IsZero())
	assert.Equal(t, int64(0), out.Revenue.TotalCount)
	assert.NotNil(t, out.DailyDetails.Items)
	assert.Empty(t, out.DailyDetails.Items)
}

// truncating agrega SummarizeTruncated sobre el repositorio en memoria.
type truncating struct {
	*memory.RevenueRepo
	unsupported bool
	calls       atomic.Int32
}

func (r *truncating) SummarizeTruncated(ctx context.Context, src revenue.Source, p revenue.Period, now time.Time, loc *time.Location) ([]revenue.Group, error) {
	r.calls.Add(1)
	if r.unsupported {
		return nil, fmt.Errorf("postgres: date_trunc: %w", domain.ErrAggregationUnsupported)
	}
	return r.Summarize(ctx, src, revenue.WindowFor(p, now, loc))
}

func TestStats_TruncationAndFallbackAgree(t *testing.T) {
	store := memory.NewStore()
	seedSales(t, store)

	plain, err := newUseCase(t, store.Revenue()).Stats(context.Background(), revenue.SourceSales, "Asia/Kolkata")
	require.NoError(t, err)

	native := &truncating{RevenueRepo: store.Revenue()}
	viaEngine, err := newUseCase(t, native).Stats(context.Background(), revenue.SourceSales, "Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, int32(3), native.calls.Load())

	fallback := &truncating{RevenueRepo: store.Revenue(), unsupported: true}
	viaRange, err := newUseCase(t, fallback).Stats(context.Background(), revenue.SourceSales, "Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, int32(3), fallback.calls.Load())

	for _, got := range []*struct{ d, m, y, total decimal.Decimal }{
		{viaEngine.Revenue.Daily, viaEngine.Revenue.Monthly, viaEngine.Revenue.Yearly, viaEngine.Revenue.Total},
		{viaRange.Revenue.Daily, viaRange.Revenue.Monthly, viaRange.Revenue.Yearly, viaRange.Revenue.Total},
	} {
		assert.True(t, plain.Revenue.Daily.Equal(got.d))
		assert.True(t, plain.Revenue.Monthly.Equal(got.m))
		assert.True(t, plain.Revenue.Yearly.Equal(got.y))
		assert.True(t, plain.Revenue.Total.Equal(got.total))
	}
	assert.Equal(t, plain.Revenue.DailyCount, viaRange.Revenue.DailyCount)
}

func TestPatientStats_SplitsIPDAndOPD(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	patients := []*entity.Patient{
		{ID: "p1", FormType: entity.FormTypeIPD, Amount: decimal.NewFromInt(1000), Date: fixedNow.Add(-time.Hour)},
		{ID: "p2", OPDNumber: "OPD-3", Amount: decimal.NewFromInt(200), Date: fixedNow.Add(-2 * time.Hour)},
		{ID: "p3", FormType: "opd", Date: fixedNow.AddDate(0, 0, -3)},
		{ID: "p4", IPDNumber: "IPD-9", Amount: decimal.NewFromInt(40), Date: fixedNow.AddDate(0, -1, 0)},
	}
	for _, p := range patients {
		p.Contact = "c-" + p.ID
		p.CreatedAt = p.Date
		require.NoError(t, store.Patients().Create(ctx, p))
	}

	out, err := newUseCase(t, store.Revenue()).PatientStats(ctx, "")
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(1200).Equal(out.Revenue.Daily))
	assert.True(t, decimal.NewFromInt(1000).Equal(out.Revenue.IPD.Daily))
	assert.True(t, decimal.NewFromInt(200).Equal(out.Revenue.OPD.Daily))
	assert.True(t, decimal.NewFromInt(200).Equal(out.Revenue.OPD.Monthly))
	assert.True(t, decimal.NewFromInt(1040).Equal(out.Revenue.IPD.Yearly))

	assert.Equal(t, int64(2), out.Counts.Daily)
	assert.Equal(t, int64(2), out.Counts.OPD.Monthly, "un importe cero también cuenta")
	assert.Equal(t, int64(4), out.Counts.Yearly)
	assert.Equal(t, int64(4), out.YearlyTotalPatients)

	require.Len(t, out.DailyDetails.Patients, 2)
	assert.Equal(t, "p2", out.DailyDetails.Patients[0].ID, "ordenados por fecha")
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), out.DailyDetails.DailyStart)
}

func TestStats_RepeatedReadsAreIdentical(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	seedSales(t, store)
	// Misma hora que sale-0 para fijar el orden de los empates.
	tie := time.Date(2026, 3, 15, 2, 0, 0, 0, time.UTC)
	require.NoError(t, store.Sales().Create(ctx, &entity.Sale{ID: "sale-tie", TotalAmount: decimal.NewFromInt(9), Date: tie, CreatedAt: tie}))
	for i, p := range []*entity.Patient{
		{ID: "p1", FormType: entity.FormTypeIPD, Amount: decimal.NewFromInt(500)},
		{ID: "p2", OPDNumber: "OPD-1", Amount: decimal.NewFromInt(80)},
	} {
		p.Contact = fmt.Sprintf("c-%d", i)
		p.Date = fixedNow.Add(-time.Hour)
		p.CreatedAt = p.Date
		require.NoError(t, store.Patients().Create(ctx, p))
	}
	uc := newUseCase(t, store.Revenue())

	asJSON := func(v any) string {
		t.Helper()
		b, err := json.Marshal(v)
		require.NoError(t, err)
		return string(b)
	}

	first, err := uc.Stats(ctx, revenue.SourceSales, "Asia/Kolkata")
	require.NoError(t, err)
	second, err := uc.Stats(ctx, revenue.SourceSales, "Asia/Kolkata")
	require.NoError(t, err)
	assert.JSONEq(t, asJSON(first), asJSON(second))
	require.Len(t, second.DailyDetails.Items, 3)
	assert.Equal(t, asJSON(first.DailyDetails.Items), asJSON(second.DailyDetails.Items), "mismo orden de items")

	pFirst, err := uc.PatientStats(ctx, "")
	require.NoError(t, err)
	pSecond, err := uc.PatientStats(ctx, "")
	require.NoError(t, err)
	assert.JSONEq(t, asJSON(pFirst), asJSON(pSecond))
	require.Len(t, pSecond.DailyDetails.Patients, 2)
	for i := range pFirst.DailyDetails.Patients {
		assert.Equal(t, pFirst.DailyDetails.Patients[i].ID, pSecond.DailyDetails.Patients[i].ID)
	}
}

func TestPeriodAmounts_DefaultZone(t *testing.T) {
	store := memory.NewStore()
	seedSales(t, store)
	got, err := newUseCase(t, store.Revenue()).PeriodAmounts(context.Background(), revenue.SourceSales)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(got.Daily))
	assert.True(t, decimal.NewFromInt(180).Equal(got.Monthly))
	assert.True(t, decimal.NewFromInt(200).Equal(got.Yearly))
}
