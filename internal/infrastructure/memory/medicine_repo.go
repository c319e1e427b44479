package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
)

// MedicineRepo implementa repository.MedicineRepository en memoria.
// Con undo distinto de nil pertenece a una transacción de TxRunner.
type MedicineRepo struct {
	s    *Store
	undo *undoLog
}

var _ repository.MedicineRepository = (*MedicineRepo)(nil)

func stockKey(id string) string    { return "medicine:" + id + ":stock" }
func priceKey(id string) string    { return "medicine:" + id + ":price" }
func medicineKey(id string) string { return "medicine:" + id }

func (r *MedicineRepo) Create(_ context.Context, m *entity.Medicine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.medicines {
		if other.Code == m.Code {
			return domain.ErrDuplicate
		}
	}
	id := m.ID
	r.s.medicines[id] = cloneMedicine(m)
	r.undo.record(medicineKey(id), func() { delete(r.s.medicines, id) })
	return nil
}

func (r *MedicineRepo) GetByID(_ context.Context, id string) (*entity.Medicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.medicines[id]
	if !ok {
		return nil, nil
	}
	return cloneMedicine(m), nil
}

func (r *MedicineRepo) List(_ context.Context) ([]*entity.Medicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Medicine, 0, len(r.s.medicines))
	for _, m := range r.s.medicines {
		out = append(out, cloneMedicine(m))
	}
	newestFirst(out, func(m *entity.Medicine) time.Time { return m.CreatedAt }, func(m *entity.Medicine) string { return m.ID })
	return out, nil
}

// Update conserva el stock guardado.
func (r *MedicineRepo) Update(_ context.Context, m *entity.Medicine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.medicines[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, other := range r.s.medicines {
		if id != m.ID && other.Code == m.Code {
			return domain.ErrDuplicate
		}
	}
	c := cloneMedicine(m)
	c.Stock = cur.Stock
	r.s.medicines[m.ID] = c
	r.restoreOnRollback(cur)
	r.overwrote(medicineKey(m.ID), priceKey(m.ID))
	return nil
}

func (r *MedicineRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.medicines[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.s.medicines, id)
	r.restoreOnRollback(cur)
	r.overwrote(medicineKey(id), stockKey(id), priceKey(id))
	return nil
}

func (r *MedicineRepo) SetStock(_ context.Context, id string, stock int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.medicines[id]
	if !ok {
		return domain.ErrNotFound
	}
	prev := m.Stock
	m.Stock = stock
	m.UpdatedAt = r.s.now()
	r.undo.record(stockKey(id), func() {
		if cur, ok := r.s.medicines[id]; ok {
			cur.Stock = prev
		}
	})
	r.overwrote(medicineKey(id), stockKey(id))
	return nil
}

// DecrementStock comprueba y descuenta bajo el mismo lock de escritura.
func (r *MedicineRepo) DecrementStock(_ context.Context, id string, qty int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.medicines[id]
	if !ok || m.Stock < qty {
		return false, nil
	}
	m.Stock -= qty
	m.UpdatedAt = r.s.now()
	// Se devuelve la cantidad: otros descuentos concurrentes siguen valiendo.
	r.undo.record(stockKey(id), func() {
		if cur, ok := r.s.medicines[id]; ok {
			cur.Stock += qty
		}
	})
	return true, nil
}

func (r *MedicineRepo) UpdateSalePrice(_ context.Context, id string, price decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.medicines[id]
	if !ok {
		return domain.ErrNotFound
	}
	prev := m.SalePrice
	m.SalePrice = price
	m.UpdatedAt = r.s.now()
	r.undo.record(priceKey(id), func() {
		if cur, ok := r.s.medicines[id]; ok {
			cur.SalePrice = prev
		}
	})
	r.overwrote(priceKey(id))
	return nil
}

func (r *MedicineRepo) restoreOnRollback(prev *entity.Medicine) {
	saved := cloneMedicine(prev)
	r.undo.record(medicineKey(saved.ID), func() { r.s.medicines[saved.ID] = saved })
}

// overwrote: una escritura absoluta hecha fuera de la transacción en curso prevalece sobre su rollback.
func (r *MedicineRepo) overwrote(keys ...string) {
	if r.undo == nil {
		r.s.active.forget(keys...)
	}
}
