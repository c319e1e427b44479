package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
	"github.com/jhoicas/hospital-api/internal/domain/repository"
)

// LabTestRepo implementa repository.LabTestRepository en memoria.
type LabTestRepo struct {
	s *Store
}

var _ repository.LabTestRepository = (*LabTestRepo)(nil)

func (r *LabTestRepo) Create(_ context.Context, t *entity.LabTest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.labTests {
		if other.Code == t.Code {
			return domain.ErrDuplicate
		}
	}
	c := *t
	r.s.labTests[t.ID] = &c
	return nil
}

func (r *LabTestRepo) GetByID(_ context.Context, id string) (*entity.LabTest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.labTests[id]
	if !ok {
		return nil, nil
	}
	c := *t
	return &c, nil
}

func (r *LabTestRepo) List(_ context.Context, q string, limit int) ([]*entity.LabTest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.LabTest, 0, len(r.s.labTests))
	for _, t := range r.s.labTests {
		if q != "" && !containsFold(t.Code, q) && !containsFold(t.Name, q) {
			continue
		}
		c := *t
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return limited(out, limit), nil
}
