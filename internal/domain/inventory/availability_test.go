package inventory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/hospital-api/internal/domain"
	"github.com/jhoicas/hospital-api/internal/domain/entity"
)

func TestDemand_SumsQuantitiesPerMedicine(t *testing.T) {
	d := NewDemand([]Line{
		{MedicineID: "a", Quantity: 3},
		{MedicineID: "b", Quantity: 1},
		{MedicineID: "a", Quantity: 4},
	})

	assert.Equal(t, []string{"a", "b"}, d.MedicineIDs())
	assert.Equal(t, int64(7), d.Quantity("a"))
	assert.Equal(t, int64(1), d.Quantity("b"))
}

func TestDemand_CheckDetectsAggregatedShortfall(t *testing.T) {
	stock := map[string]*entity.Medicine{
		"a": {ID: "a", Name: "Paracetamol", Stock: 5},
	}
	// Cada línea cabe por separado, pero la suma no.
	d := NewDemand([]Line{{MedicineID: "a", Quantity: 3}, {MedicineID: "a", Quantity: 3}})

	err := d.Check(stock)
	require.Error(t, err)

	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, "Insufficient stock for Paracetamol", err.Error())
	assert.Equal(t, int64(6), ise.Requested)
	assert.Equal(t, int64(5), ise.Available)
}

func TestDemand_CheckExactStock(t *testing.T) {
	stock := map[string]*entity.Medicine{"a": {ID: "a", Name: "Amoxicilina", Stock: 10}}
	assert.NoError(t, NewDemand([]Line{{MedicineID: "a", Quantity: 10}}).Check(stock))
}

func TestDemand_CheckUnknownMedicine(t *testing.T) {
	err := NewDemand([]Line{{MedicineID: "x", Quantity: 1}}).Check(map[string]*entity.Medicine{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, "Medicine not found: x", err.Error())
}
