package pdf

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payslip"
	"github.com/shopspring/decimal"
)

// CompanyProfile is the branding printed on every payslip.
type CompanyProfile struct {
	Name       string
	Subtitle   string
	Address    string
	FooterText string
	Logo       []byte
	LogoType   string // "PNG" or "JPG"
}

// Row is one line of the earnings/deductions table. Padding rows carry empty
// strings on the shorter side.
type Row struct {
	Earning         string
	EarningAmount   string
	Deduction       string
	DeductionAmount string
}

type Field struct {
	Label string
	Value string
}

// Layout is the fully formatted content of a payslip document.
type Layout struct {
	CompanyName string
	Subtitle    string
	Address     string
	Logo        []byte
	LogoType    string
	Heading     string
	Details     []Field
	Header      Row
	Rows        []Row
	Totals      Row
	NetPay      string
	NetPayWords string
	Notes       []string
	Attendance  string
	Footer      string
	Title       string
	CreatedAt   time.Time
}

// FormatAmount renders an amount with exactly two decimal places.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// BuildLayout maps a finalized payslip onto the document layout.
func BuildLayout(p payslip.Payslip, emp employee.Employee, company CompanyProfile) Layout {
	l := Layout{
		CompanyName: company.Name,
		Subtitle:    company.Subtitle,
		Address:     company.Address,
		Logo:        company.Logo,
		LogoType:    company.LogoType,
		Heading:     "Payslip for " + p.PeriodLabel(),
		Header:      Row{Earning: "Earnings", EarningAmount: "Amount", Deduction: "Deductions", DeductionAmount: "Amount"},
		Rows:        Rows(p.Earnings, p.Deductions),
		Totals: Row{
			Earning:         "Gross Pay",
			EarningAmount:   FormatAmount(p.GrossPay),
			Deduction:       "Total Deductions",
			DeductionAmount: FormatAmount(p.TotalDeductions),
		},
		NetPay:      fmt.Sprintf("Net Pay: %s %s", p.Currency, FormatAmount(p.NetPay)),
		NetPayWords: "Amount in words: " + p.NetPayWords,
		Footer:      company.FooterText,
		Title:       fmt.Sprintf("Payslip %s %s", p.EmployeeCode, p.PeriodStart.Format("2006-01")),
		CreatedAt:   p.IssueDate,
	}

	l.Details = []Field{
		{Label: "Employee Name", Value: p.EmployeeName},
		{Label: "Employee ID", Value: p.EmployeeCode},
		{Label: "Designation", Value: deref(p.Designation)},
		{Label: "Pay Period", Value: p.PeriodStart.Format("02 Jan 2006") + " - " + p.PeriodEnd.Format("02 Jan 2006")},
		{Label: "Issue Date", Value: p.IssueDate.Format("02 Jan 2006")},
		{Label: "Payment Method", Value: p.PaymentMethod},
	}
	if emp.JoiningDate != nil {
		l.Details = append(l.Details, Field{Label: "Date of Joining", Value: emp.JoiningDate.Format("02 Jan 2006")})
	}
	if p.PaymentMethod == employee.PaymentBankTransfer {
		if bank := strings.TrimSpace(deref(emp.BankName) + " " + maskAccount(deref(emp.BankAccountNumber))); bank != "" {
			l.Details = append(l.Details, Field{Label: "Bank Account", Value: bank})
		}
	}

	if p.Notes != nil {
		for _, line := range strings.Split(*p.Notes, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				l.Notes = append(l.Notes, line)
			}
		}
	}
	if s := p.AttendanceSummary; s != nil {
		l.Attendance = fmt.Sprintf("Attendance: Present %d, Absent %d, Leave %d, Total %d", s.Present, s.Absent, s.Leave, s.Total)
	}

	return l
}

// Rows pairs earnings with deductions, padding the shorter side with blank
// cells so both columns have the same number of rows.
func Rows(earnings, deductions []payroll.LineItem) []Row {
	n := len(earnings)
	if len(deductions) > n {
		n = len(deductions)
	}
	rows := make([]Row, n)
	for i := 0; i < n; i++ {
		if i < len(earnings) {
			rows[i].Earning = earnings[i].Name
			rows[i].EarningAmount = FormatAmount(earnings[i].Amount)
		}
		if i < len(deductions) {
			rows[i].Deduction = deductions[i].Name
			rows[i].DeductionAmount = FormatAmount(deductions[i].Amount)
		}
	}
	return rows
}

// maskAccount keeps the last four characters of an account number.
func maskAccount(acct string) string {
	acct = strings.TrimSpace(acct)
	if len(acct) <= 4 {
		return acct
	}
	return strings.Repeat("X", len(acct)-4) + acct[len(acct)-4:]
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
