package billing_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hospital-api/internal/application/billing"
	"github.com/jhoicas/hospital-api/internal/infrastructure/memory"
)

// countingLocker serializa por contacto con un mutex local y cuenta las adquisiciones.
type countingLocker struct {
	mu    sync.Mutex
	locks int
	fail  bool
}

func (l *countingLocker) Lock(context.Context, string) (func(), error) {
	if l.fail {
		return nil, errors.New("lock not obtained")
	}
	l.mu.Lock()
	l.locks++
	return l.mu.Unlock, nil
}

func TestReconcile_ConcurrentSameContactCreatesOnePatient(t *testing.T) {
	store := memory.NewStore()
	locker := &countingLocker{}
	r := billing.NewPatientReconciler(store.Patients(), locker, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Reconcile(context.Background(), billing.ReconcileInput{Contact: "555", Name: "Same"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	all, err := store.Patients().List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, 10, locker.locks)
}

func TestReconcile_LockFailureStillReconciles(t *testing.T) {
	store := memory.NewStore()
	r := billing.NewPatientReconciler(store.Patients(), &countingLocker{fail: true}, zerolog.Nop())

	amount := decimal.NewFromInt(70)
	p, err := r.Reconcile(context.Background(), billing.ReconcileInput{Contact: " 556 ", Name: "Lone", IPDNumber: "OPD-2", Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, "556", p.Contact)
	assert.Equal(t, "OPD", p.FormType)
	assert.True(t, amount.Equal(p.Amount))
}

func TestReconcile_EmptyContact(t *testing.T) {
	r := billing.NewPatientReconciler(memory.NewStore().Patients(), nil, zerolog.Nop())
	_, err := r.Reconcile(context.Background(), billing.ReconcileInput{Contact: "  "})
	assert.Error(t, err)
}
