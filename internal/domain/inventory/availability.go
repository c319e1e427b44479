package inventory

import (
	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
)

// Line descuento solicitado sobre un medicamento.
type Line struct {
	MedicineID string
	Quantity   int64
}

// Demand acumula la cantidad pedida por medicamento respetando el orden de aparición.
type Demand struct {
	order []string
	qty   map[string]int64
}

// NewDemand agrupa las líneas por medicamento.
func NewDemand(lines []Line) *Demand {
	d := &Demand{qty: make(map[string]int64, len(lines))}
	for _, l := range lines {
		if _, ok := d.qty[l.MedicineID]; !ok {
			d.order = append(d.order, l.MedicineID)
		}
		d.qty[l.MedicineID] += l.Quantity
	}
	return d
}

// MedicineIDs ids en orden de primera aparición.
func (d *Demand) MedicineIDs() []string {
	return d.order
}

// Quantity cantidad total pedida para el medicamento.
func (d *Demand) Quantity(medicineID string) int64 {
	return d.qty[medicineID]
}

// Check verifica que el stock actual cubra la demanda total de cada medicamento.
// Devuelve el primer InsufficientStockError en orden de aparición.
func (d *Demand) Check(stock map[string]*entity.Medicine) error {
	for _, id := range d.order {
		m, ok := stock[id]
		if !ok || m == nil {
			return &domain.NotFoundError{Entity: "Medicine", ID: id}
		}
		if m.Stock < d.qty[id] {
			return &domain.InsufficientStockError{
				MedicineID: id,
				Name:       m.Name,
				Requested:  d.qty[id],
				Available:  m.Stock,
			}
		}
	}
	return nil
}
