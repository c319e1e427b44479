package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
)

// PatientRepo implementa repository.PatientRepository en memoria.
type PatientRepo struct {
	s *Store
}

var _ repository.PatientRepository = (*PatientRepo)(nil)

// ipdTaken se llama con el lock tomado.
func (r *PatientRepo) ipdTaken(ipd, exceptID string) bool {
	if ipd == "" {
		return false
	}
	for id, p := range r.s.patients {
		if id != exceptID && p.IPDNumber == ipd {
			return true
		}
	}
	return false
}

func (r *PatientRepo) Create(_ context.Context, p *entity.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.ipdTaken(p.IPDNumber, p.ID) {
		return domain.ErrDuplicate
	}
	r.s.patients[p.ID] = clonePatient(p)
	return nil
}

func (r *PatientRepo) GetByID(_ context.Context, id string) (*entity.Patient, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.patients[id]
	if !ok {
		return nil, nil
	}
	return clonePatient(p), nil
}

func (r *PatientRepo) Update(_ context.Context, p *entity.Patient) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.patients[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.ipdTaken(p.IPDNumber, p.ID) {
		return domain.ErrDuplicate
	}
	r.s.patients[p.ID] = clonePatient(p)
	return nil
}

func (r *PatientRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.patients[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.patients, id)
	return nil
}

func (r *PatientRepo) List(_ context.Context) ([]*entity.Patient, error) {
	out := r.match(func(*entity.Patient) bool { return true })
	newestFirst(out, func(p *entity.Patient) time.Time { return p.CreatedAt }, func(p *entity.Patient) string { return p.ID })
	return out, nil
}

func (r *PatientRepo) FindByContact(_ context.Context, contact string) (*entity.Patient, error) {
	out := r.match(func(p *entity.Patient) bool { return p.Contact == contact })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return first(out), nil
}

func (r *PatientRepo) FindByIPDNumber(_ context.Context, ipdNumber string) (*entity.Patient, error) {
	if ipdNumber == "" {
		return nil, nil
	}
	return first(r.match(func(p *entity.Patient) bool { return p.IPDNumber == ipdNumber })), nil
}

func (r *PatientRepo) FindFirst(_ context.Context, f repository.PatientFilter) (*entity.Patient, error) {
	var pred func(*entity.Patient) bool
	switch {
	case f.IPD != "":
		pred = func(p *entity.Patient) bool { return p.IPDNumber == f.IPD }
	case f.Contact != "":
		pred = func(p *entity.Patient) bool { return containsFold(p.Contact, f.Contact) }
	case f.QIsIPD:
		pred = func(p *entity.Patient) bool { return strings.EqualFold(p.IPDNumber, f.Q) }
	default:
		pred = func(p *entity.Patient) bool { return containsFold(p.Contact, f.Q) || p.IPDNumber == f.Q }
	}
	out := r.match(pred)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return first(out), nil
}

func (r *PatientRepo) match(pred func(*entity.Patient) bool) []*entity.Patient {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Patient
	for _, p := range r.s.patients {
		if pred(p) {
			out = append(out, clonePatient(p))
		}
	}
	return out
}

func first(list []*entity.Patient) *entity.Patient {
	if len(list) == 0 {
		return nil
	}
	return list[0]
}
