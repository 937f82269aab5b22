package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// BasicSalary is the earnings line that pro-ration adjusts and that every
// payroll grid must carry.
const BasicSalary = "Basic Salary"

type LineItem struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Defaults is the per-employee recurring earnings/deductions template.
type Defaults struct {
	EmployeeID string
	Earnings   []LineItem
	Deductions []LineItem
	UpdatedAt  *time.Time
}

// WithBasicSalary returns a copy whose earnings contain a Basic Salary line,
// inserting one at the front from monthlySalary when missing.
func (d Defaults) WithBasicSalary(monthlySalary decimal.Decimal) Defaults {
	out := Defaults{
		EmployeeID: d.EmployeeID,
		Earnings:   make([]LineItem, 0, len(d.Earnings)+1),
		Deductions: append([]LineItem{}, d.Deductions...),
		UpdatedAt:  d.UpdatedAt,
	}
	if IndexOf(d.Earnings, BasicSalary) < 0 {
		out.Earnings = append(out.Earnings, LineItem{Name: BasicSalary, Amount: monthlySalary})
	}
	out.Earnings = append(out.Earnings, d.Earnings...)
	return out
}

// IndexOf returns the position of the first line named name, or -1.
func IndexOf(items []LineItem, name string) int {
	for i, item := range items {
		if item.Name == name {
			return i
		}
	}
	return -1
}

// Sum adds every amount exactly.
func Sum(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Amount)
	}
	return total
}
