package payslip

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Payslip is a finalized payroll record. Amounts and words are frozen at
// creation; only EmailSentAt changes afterwards.
type Payslip struct {
	ID                string
	EmployeeID        string
	EmployeeCode      string
	EmployeeName      string
	Designation       *string
	PeriodStart       time.Time
	PeriodEnd         time.Time
	IssueDate         time.Time
	Earnings          []payroll.LineItem
	Deductions        []payroll.LineItem
	GrossPay          decimal.Decimal
	TotalDeductions   decimal.Decimal
	NetPay            decimal.Decimal
	NetPayWords       string
	Currency          string
	PaymentMethod     string
	Notes             *string
	AttendanceSummary *attendance.Summary
	PDFPath           string
	EmailSentAt       *time.Time
	CreatedBy         *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PeriodLabel renders the pay period as "June 2024", or as a date range when
// the period spans months.
func (p Payslip) PeriodLabel() string {
	if p.PeriodStart.Year() == p.PeriodEnd.Year() && p.PeriodStart.Month() == p.PeriodEnd.Month() {
		return p.PeriodStart.Format("January 2006")
	}
	return p.PeriodStart.Format("02 Jan 2006") + " - " + p.PeriodEnd.Format("02 Jan 2006")
}

type ItemStatus string

const (
	StatusSuccess ItemStatus = "Success"
	StatusPartial ItemStatus = "Partial"
	StatusFail    ItemStatus = "Fail"
)
