// Package memory almacén en memoria con la misma semántica que el de Postgres.
// Se usa con STORE_DRIVER=memory (desarrollo) y en los tests de casos de uso y handlers.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/hospital-api/internal/domain/entity"
)

// Store datos en memoria protegidos por un RWMutex. Las entidades se copian al entrar y al salir.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex // serializa las transacciones

	active *undoLog // transacción en curso, si la hay

	medicines map[string]*entity.Medicine
	sales     map[string]*entity.Sale
	bills     map[entity.BillKind]map[string]*entity.Bill
	patients  map[string]*entity.Patient
	labTests  map[string]*entity.LabTest
	users     map[string]*entity.User

	now func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		medicines: map[string]*entity.Medicine{},
		sales:     map[string]*entity.Sale{},
		bills: map[entity.BillKind]map[string]*entity.Bill{
			entity.BillKindCash:    {},
			entity.BillKindLab:     {},
			entity.BillKindMedical: {},
		},
		patients: map[string]*entity.Patient{},
		labTests: map[string]*entity.LabTest{},
		users:    map[string]*entity.User{},
		now:      time.Now,
	}
}

// Medicines repositorio de medicamentos.
func (s *Store) Medicines() *MedicineRepo { return &MedicineRepo{s: s} }

// Sales repositorio de ventas.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{s: s} }

// Bills repositorio del tipo de factura indicado.
func (s *Store) Bills(kind entity.BillKind) *BillRepo { return &BillRepo{s: s, kind: kind} }

// Patients repositorio de pacientes.
func (s *Store) Patients() *PatientRepo { return &PatientRepo{s: s} }

// LabTests repositorio de exámenes.
func (s *Store) LabTests() *LabTestRepo { return &LabTestRepo{s: s} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Revenue consultas de ingresos (sin truncado de fechas).
func (s *Store) Revenue() *RevenueRepo { return &RevenueRepo{s: s} }

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func limited[T any](list []T, limit int) []T {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}

// newestFirst ordena por creación descendente con el id como desempate.
func newestFirst[T any](list []T, created func(T) time.Time, id func(T) string) {
	sort.SliceStable(list, func(i, j int) bool {
		ci, cj := created(list[i]), created(list[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return id(list[i]) < id(list[j])
	})
}

func cloneMedicine(m *entity.Medicine) *entity.Medicine {
	c := *m
	return &c
}

func cloneSale(v *entity.Sale) *entity.Sale {
	c := *v
	c.Items = append([]entity.SaleItem(nil), v.Items...)
	return &c
}

func cloneBill(b *entity.Bill) *entity.Bill {
	c := *b
	c.Services = append([]entity.BillService(nil), b.Services...)
	return &c
}

func clonePatient(p *entity.Patient) *entity.Patient {
	c := *p
	return &c
}
