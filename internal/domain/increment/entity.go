package increment

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Entry is an immutable salary change record.
type Entry struct {
	ID                  string
	EmployeeID          string
	OldSalary           decimal.Decimal
	NewSalary           decimal.Decimal
	IncrementAmount     decimal.Decimal
	IncrementPercentage decimal.Decimal
	EffectiveDate       time.Time
	Reason              *string
	CreatedBy           *string
	CreatedAt           time.Time
}

// Change is the user's input; exactly one field is set.
type Change struct {
	Percentage *decimal.Decimal
	Amount     *decimal.Decimal
	NewSalary  *decimal.Decimal
}

// Derive fills the remaining fields from whichever input drives the change.
// Amount and percentage are rounded to two places; new_salary is always
// old_salary + amount.
func Derive(oldSalary decimal.Decimal, c Change) (amount, percentage, newSalary decimal.Decimal, err error) {
	switch {
	case c.Percentage != nil:
		if oldSalary.IsZero() {
			return decimal.Zero, decimal.Zero, decimal.Zero, ErrPercentageOnZeroSalary
		}
		percentage = c.Percentage.Round(2)
		amount = oldSalary.Mul(*c.Percentage).Div(hundred).Round(2)
	case c.Amount != nil:
		amount = c.Amount.Round(2)
		percentage = percentOf(oldSalary, amount)
	case c.NewSalary != nil:
		amount = c.NewSalary.Round(2).Sub(oldSalary)
		percentage = percentOf(oldSalary, amount)
	default:
		return decimal.Zero, decimal.Zero, decimal.Zero, ErrAmbiguousChange
	}

	newSalary = oldSalary.Add(amount)
	if newSalary.IsNegative() {
		return decimal.Zero, decimal.Zero, decimal.Zero, ErrNegativeSalary
	}
	return amount, percentage, newSalary, nil
}

func percentOf(base, amount decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return amount.Div(base).Mul(hundred).Round(2)
}
