package memory

import (
	"context"
	"time"

	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
)

// BillRepo implementa repository.BillRepository para un tipo de factura.
type BillRepo struct {
	s    *Store
	kind entity.BillKind
	undo *undoLog
}

var _ repository.BillRepository = (*BillRepo)(nil)

func (r *BillRepo) Kind() entity.BillKind { return r.kind }

func (r *BillRepo) Create(_ context.Context, b *entity.Bill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := cloneBill(b)
	c.Kind = r.kind
	r.s.bills[r.kind][b.ID] = c
	id := b.ID
	r.undo.record(r.key(id), func() { delete(r.s.bills[r.kind], id) })
	return nil
}

func (r *BillRepo) GetByID(_ context.Context, id string) (*entity.Bill, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.bills[r.kind][id]
	if !ok {
		return nil, nil
	}
	return cloneBill(b), nil
}

func (r *BillRepo) Update(_ context.Context, b *entity.Bill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.bills[r.kind][b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c := cloneBill(b)
	c.Kind = r.kind
	r.s.bills[r.kind][b.ID] = c
	r.restoreOnRollback(prev)
	if r.undo == nil {
		r.s.active.forget(r.key(prev.ID))
	}
	return nil
}

func (r *BillRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.bills[r.kind][id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.s.bills[r.kind], id)
	r.restoreOnRollback(prev)
	if r.undo == nil {
		r.s.active.forget(r.key(prev.ID))
	}
	return nil
}

func (r *BillRepo) restoreOnRollback(prev *entity.Bill) {
	saved := cloneBill(prev)
	r.undo.record(r.key(saved.ID), func() { r.s.bills[r.kind][saved.ID] = saved })
}

func (r *BillRepo) key(id string) string { return "bill:" + string(r.kind) + ":" + id }

func (r *BillRepo) List(_ context.Context, contact string, limit int) ([]*entity.Bill, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Bill, 0)
	for _, b := range r.s.bills[r.kind] {
		if contact != "" && !containsFold(b.Contact, contact) {
			continue
		}
		out = append(out, cloneBill(b))
	}
	newestFirst(out, func(b *entity.Bill) time.Time { return b.CreatedAt }, func(b *entity.Bill) string { return b.ID })
	return limited(out, limit), nil
}
