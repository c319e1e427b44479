package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
	"github.com/jhoicas/hospital-api/internal/domain/revenue"
)

// RevenueRepo implementa repository.RevenueRepository recorriendo los mapas.
// No implementa TruncatingRevenueRepository: el caso de uso siempre agrega por rango.
type RevenueRepo struct {
	s *Store
}

var _ repository.RevenueRepository = (*RevenueRepo)(nil)

func (r *RevenueRepo) Summarize(_ context.Context, src revenue.Source, w revenue.Window) ([]revenue.Group, error) {
	recs, err := r.records(src, w)
	if err != nil {
		return nil, err
	}
	if src != revenue.SourcePatients {
		g := revenue.Group{Count: int64(len(recs))}
		for _, rec := range recs {
			g.Amount = g.Amount.Add(rec.Amount)
		}
		return []revenue.Group{g}, nil
	}
	groups := make([]revenue.Group, 0, len(recs))
	for _, rec := range recs {
		p := rec.Doc.(*entity.Patient)
		groups = append(groups, revenue.Group{
			FormType:  p.FormType,
			IPDNumber: p.IPDNumber,
			OPDNumber: p.OPDNumber,
			Amount:    rec.Amount,
			Count:     1,
		})
	}
	return groups, nil
}

func (r *RevenueRepo) ListInWindow(_ context.Context, src revenue.Source, w revenue.Window) ([]revenue.Record, error) {
	recs, err := r.records(src, w)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].Date.Equal(recs[j].Date) {
			return recs[i].Date.Before(recs[j].Date)
		}
		return recs[i].ID < recs[j].ID
	})
	return recs, nil
}

func (r *RevenueRepo) records(src revenue.Source, w revenue.Window) ([]revenue.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []revenue.Record
	switch src {
	case revenue.SourceSales:
		for _, v := range r.s.sales {
			if w.Contains(v.Date) {
				out = append(out, revenue.Record{ID: v.ID, Date: v.Date, Amount: v.TotalAmount, Doc: cloneSale(v)})
			}
		}
	case revenue.SourceCashBills, revenue.SourceLabBills, revenue.SourceMedicalBills:
		for _, b := range r.s.bills[billKind(src)] {
			if w.Contains(b.Date) {
				out = append(out, revenue.Record{ID: b.ID, Date: b.Date, Amount: b.Total, Doc: cloneBill(b)})
			}
		}
	case revenue.SourcePatients:
		for _, p := range r.s.patients {
			if w.Contains(p.Date) {
				out = append(out, revenue.Record{ID: p.ID, Date: p.Date, Amount: p.Amount, Doc: clonePatient(p)})
			}
		}
	default:
		return nil, fmt.Errorf("memory: fuente desconocida %q", src)
	}
	return out, nil
}

func billKind(src revenue.Source) entity.BillKind {
	switch src {
	case revenue.SourceLabBills:
		return entity.BillKindLab
	case revenue.SourceMedicalBills:
		return entity.BillKindMedical
	default:
		return entity.BillKindCash
	}
}
