package increment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestDerive_FromPercentage(t *testing.T) {
	amount, pct, newSalary, err := Derive(decimal.NewFromInt(30000), Change{Percentage: dec("10")})
	require.NoError(t, err)
	assert.Equal(t, "3000.00", amount.StringFixed(2))
	assert.Equal(t, "10.00", pct.StringFixed(2))
	assert.Equal(t, "33000.00", newSalary.StringFixed(2))
}

func TestDerive_FromAmount(t *testing.T) {
	amount, pct, newSalary, err := Derive(decimal.NewFromInt(30000), Change{Amount: dec("2500")})
	require.NoError(t, err)
	assert.Equal(t, "2500.00", amount.StringFixed(2))
	assert.Equal(t, "8.33", pct.StringFixed(2))
	assert.Equal(t, "32500.00", newSalary.StringFixed(2))
}

func TestDerive_FromNewSalary(t *testing.T) {
	amount, pct, newSalary, err := Derive(decimal.NewFromInt(40000), Change{NewSalary: dec("38000")})
	require.NoError(t, err)
	assert.Equal(t, "-2000.00", amount.StringFixed(2))
	assert.Equal(t, "-5.00", pct.StringFixed(2))
	assert.Equal(t, "38000.00", newSalary.StringFixed(2))
}

func TestDerive_NewSalaryEqualsOldPlusAmount(t *testing.T) {
	old := decimal.RequireFromString("12345.67")
	for _, p := range []string{"0", "1.5", "7.25", "33.33", "100"} {
		amount, _, newSalary, err := Derive(old, Change{Percentage: dec(p)})
		require.NoError(t, err)
		assert.True(t, newSalary.Equal(old.Add(amount)), "percentage %s", p)
	}
}

func TestDerive_ZeroSalary(t *testing.T) {
	_, _, _, err := Derive(decimal.Zero, Change{Percentage: dec("5")})
	assert.ErrorIs(t, err, ErrPercentageOnZeroSalary)

	amount, pct, newSalary, err := Derive(decimal.Zero, Change{Amount: dec("1000")})
	require.NoError(t, err)
	assert.True(t, pct.IsZero())
	assert.True(t, amount.Equal(newSalary))
}

func TestDerive_Errors(t *testing.T) {
	_, _, _, err := Derive(decimal.NewFromInt(1000), Change{})
	assert.ErrorIs(t, err, ErrAmbiguousChange)

	_, _, _, err = Derive(decimal.NewFromInt(1000), Change{Amount: dec("-1500")})
	assert.ErrorIs(t, err, ErrNegativeSalary)
}

func TestCreateIncrementRequest_Validate(t *testing.T) {
	req := CreateIncrementRequest{
		EmployeeID:      "0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		IncrementAmount: dec("100"),
		NewSalary:       dec("2000"),
		EffectiveDate:   "2024-07-01",
	}
	assert.Error(t, req.Validate())

	req.NewSalary = nil
	require.NoError(t, req.Validate())
	assert.Equal(t, 2024, req.ParsedEffectiveDate().Year())

	req.EffectiveDate = "07/01/2024"
	assert.Error(t, req.Validate())
}
