package revenue

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassifyFormType(t *testing.T) {
	cases := []struct {
		formType, ipd, opd, want string
	}{
		{"OPD", "IPD-1", "", "OPD"},
		{"ipd", "", "", "IPD"},
		{"", "OPD-22", "", "OPD"},
		{"", "opd-22", "", "OPD"},
		{"", "", "OPD-9", "OPD"},
		{"", "IPD-5", "OPD-9", "IPD"},
		{"", "X-1", "", "IPD"},
		{"", "", "", "IPD"},
		{"OTHER", "OPD-1", "", "OPD"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyFormType(tc.formType, tc.ipd, tc.opd), "%+v", tc)
	}
}

func TestFold_SplitsIPDAndOPD(t *testing.T) {
	s := Fold([]Group{
		{FormType: "IPD", Amount: decimal.NewFromInt(500), Count: 1},
		{FormType: "IPD", Amount: decimal.NewFromInt(700), Count: 1},
		{FormType: "OPD", Amount: decimal.NewFromInt(300), Count: 1},
		{IPDNumber: "OPD-", Amount: decimal.Zero, Count: 2},
	})

	assert.True(t, decimal.NewFromInt(1200).Equal(s.IPD.Amount))
	assert.True(t, decimal.NewFromInt(300).Equal(s.OPD.Amount))
	assert.Equal(t, int64(3), s.OPD.Count)
	assert.True(t, decimal.NewFromInt(1500).Equal(s.All.Amount))
	assert.Equal(t, int64(5), s.All.Count)
}
