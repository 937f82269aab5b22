package payslip

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payslip"
	"github.com/shopspring/decimal"
)

// ComputeInput is everything the engine needs to finalize one payslip.
type ComputeInput struct {
	Employee      employee.Employee
	PeriodStart   time.Time
	PeriodEnd     time.Time
	IssueDate     time.Time
	Earnings      []payroll.LineItem
	Deductions    []payroll.LineItem
	Currency      string
	PaymentMethod string
	Notes         *string
	// Attendance, when non-nil, is tallied into the payslip's summary. It
	// never affects the amounts.
	Attendance []attendance.Record
}

// Calculator finalizes payslip values. It performs no I/O.
type Calculator struct {
	AllowNegativeNet bool
	DefaultCurrency  string
}

// Compute applies pro-ration, aggregates the grid and spells the net pay.
// The input slices are not modified.
func (c Calculator) Compute(in ComputeInput) (payslip.Payslip, error) {
	emp := in.Employee
	if emp.ID == "" || strings.TrimSpace(emp.FullName) == "" {
		return payslip.Payslip{}, payslip.ErrMissingEmployee
	}
	if in.PeriodEnd.Before(in.PeriodStart) {
		return payslip.Payslip{}, fmt.Errorf("%w: period ends before it starts", payslip.ErrComputation)
	}
	if err := checkItems(in.Earnings); err != nil {
		return payslip.Payslip{}, err
	}
	if err := checkItems(in.Deductions); err != nil {
		return payslip.Payslip{}, err
	}

	earnings := append([]payroll.LineItem{}, in.Earnings...)
	deductions := append([]payroll.LineItem{}, in.Deductions...)
	notes := in.Notes

	if amount, note, ok := Prorate(emp.MonthlySalary, emp.JoiningDate, in.PeriodStart); ok {
		if i := payroll.IndexOf(earnings, payroll.BasicSalary); i >= 0 {
			earnings[i].Amount = amount
		} else {
			earnings = append([]payroll.LineItem{{Name: payroll.BasicSalary, Amount: amount}}, earnings...)
		}
		notes = appendNote(notes, note)
	}

	gross := payroll.Sum(earnings)
	totalDeductions := payroll.Sum(deductions)
	net := gross.Sub(totalDeductions)

	if net.IsNegative() && !c.AllowNegativeNet {
		return payslip.Payslip{}, payslip.ErrNegativeNetPay
	}
	if net.Abs().GreaterThanOrEqual(maxWordsAmount) {
		return payslip.Payslip{}, fmt.Errorf("%w: net pay %s is out of range", payslip.ErrComputation, net)
	}

	currency := in.Currency
	if currency == "" {
		currency = emp.Currency
	}
	if currency == "" {
		currency = c.DefaultCurrency
	}
	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = emp.PaymentMethod
	}

	p := payslip.Payslip{
		EmployeeID:      emp.ID,
		EmployeeCode:    emp.EmployeeCode,
		EmployeeName:    emp.FullName,
		Designation:     emp.Designation,
		PeriodStart:     in.PeriodStart,
		PeriodEnd:       in.PeriodEnd,
		IssueDate:       in.IssueDate,
		Earnings:        earnings,
		Deductions:      deductions,
		GrossPay:        gross,
		TotalDeductions: totalDeductions,
		NetPay:          net,
		NetPayWords:     NumberToWords(net),
		Currency:        currency,
		PaymentMethod:   paymentMethod,
		Notes:           notes,
	}
	if in.Attendance != nil {
		summary := attendance.Summarize(in.Attendance)
		p.AttendanceSummary = &summary
	}
	return p, nil
}

// Prorate returns the Basic Salary for an employee who joined after the first
// day of the month containing periodStart, together with a note describing
// the adjustment. ok is false when no pro-ration applies.
func Prorate(monthlySalary decimal.Decimal, joiningDate *time.Time, periodStart time.Time) (amount decimal.Decimal, note string, ok bool) {
	if joiningDate == nil {
		return decimal.Zero, "", false
	}
	join := *joiningDate
	if join.Year() != periodStart.Year() || join.Month() != periodStart.Month() || join.Day() <= 1 {
		return decimal.Zero, "", false
	}

	daysInMonth := time.Date(join.Year(), join.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	worked := daysInMonth - (join.Day() - 1)

	amount = monthlySalary.Mul(decimal.NewFromInt(int64(worked))).
		Div(decimal.NewFromInt(int64(daysInMonth))).
		Round(0)
	note = fmt.Sprintf("%s pro-rated for joining on %s: %d/%d days",
		payroll.BasicSalary, join.Format("02 Jan 2006"), worked, daysInMonth)
	return amount, note, true
}

func checkItems(items []payroll.LineItem) error {
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("%w: item %d has no name", payslip.ErrInvalidLineItem, i)
		}
		if item.Amount.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", payslip.ErrInvalidLineItem, item.Name)
		}
	}
	return nil
}

func appendNote(notes *string, note string) *string {
	if notes == nil || strings.TrimSpace(*notes) == "" {
		return &note
	}
	joined := strings.TrimRight(*notes, "\n") + "\n" + note
	return &joined
}
