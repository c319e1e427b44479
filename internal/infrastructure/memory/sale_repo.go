package memory

import (
	"context"
	"time"

	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
)

// SaleRepo implementa repository.SaleRepository en memoria.
type SaleRepo struct {
	s    *Store
	undo *undoLog
}

var _ repository.SaleRepository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(_ context.Context, v *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sales[v.ID] = cloneSale(v)
	id := v.ID
	r.undo.record("sale:"+id, func() { delete(r.s.sales, id) })
	return nil
}

func (r *SaleRepo) List(_ context.Context, limit int) ([]*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Sale, 0, len(r.s.sales))
	for _, v := range r.s.sales {
		out = append(out, cloneSale(v))
	}
	newestFirst(out, func(v *entity.Sale) time.Time { return v.CreatedAt }, func(v *entity.Sale) string { return v.ID })
	return limited(out, limit), nil
}
