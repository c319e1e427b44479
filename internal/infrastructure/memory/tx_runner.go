package memory

import (
	"context"

	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
)

// TxRunner emula una transacción: los repositorios que recibe fn anotan cómo deshacer cada
// escritura y, si fn devuelve error, solo esas escrituras se revierten. Lo escrito fuera de la
// transacción se conserva. Las transacciones se ejecutan de una en una.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run venta + descuentos de stock.
func (t *TxRunner) Run(ctx context.Context, fn func(medicineRepo repository.MedicineRepository, saleRepo repository.SaleRepository) error) error {
	undo := t.begin()
	defer t.s.txMu.Unlock()

	err := fn(&MedicineRepo{s: t.s, undo: undo}, &SaleRepo{s: t.s, undo: undo})
	t.end(undo, err)
	return err
}

// RunBilling factura del tipo indicado + descuentos de stock.
func (t *TxRunner) RunBilling(ctx context.Context, kind entity.BillKind, fn func(medicineRepo repository.MedicineRepository, billRepo repository.BillRepository) error) error {
	undo := t.begin()
	defer t.s.txMu.Unlock()

	err := fn(&MedicineRepo{s: t.s, undo: undo}, &BillRepo{s: t.s, kind: kind, undo: undo})
	t.end(undo, err)
	return err
}

func (t *TxRunner) begin() *undoLog {
	t.s.txMu.Lock()
	undo := &undoLog{forgotten: map[string]bool{}}
	t.s.mu.Lock()
	t.s.active = undo
	t.s.mu.Unlock()
	return undo
}

// end revierte en orden inverso si err != nil y desactiva el registro.
func (t *TxRunner) end(undo *undoLog, err error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.active = nil
	if err == nil {
		return
	}
	for i := len(undo.steps) - 1; i >= 0; i-- {
		if step := undo.steps[i]; !undo.forgotten[step.key] {
			step.apply()
		}
	}
}

type undoStep struct {
	key   string
	apply func()
}

// undoLog pasos inversos de las escrituras de una transacción, en orden de ejecución.
// Se anota y se consulta con Store.mu tomado en escritura. Los métodos aceptan receptor nil.
type undoLog struct {
	steps     []undoStep
	forgotten map[string]bool
}

func (u *undoLog) record(key string, apply func()) {
	if u != nil {
		u.steps = append(u.steps, undoStep{key: key, apply: apply})
	}
}

func (u *undoLog) forget(keys ...string) {
	if u == nil {
		return
	}
	for _, k := range keys {
		u.forgotten[k] = true
	}
}
