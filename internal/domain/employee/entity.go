package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive     Status = "Active"
	StatusInactive   Status = "Inactive"
	StatusResigned   Status = "Resigned"
	StatusTerminated Status = "Terminated"
)

var Statuses = []string{
	string(StatusActive),
	string(StatusInactive),
	string(StatusResigned),
	string(StatusTerminated),
}

const (
	PaymentBankTransfer = "Bank Transfer"
	PaymentCash         = "Cash"
	PaymentCheque       = "Cheque"
)

var PaymentMethods = []string{PaymentBankTransfer, PaymentCash, PaymentCheque}

type Employee struct {
	ID                string
	EmployeeCode      string
	FullName          string
	Email             *string
	Phone             *string
	Designation       *string
	Department        *string
	MonthlySalary     decimal.Decimal
	Currency          string
	JoiningDate       *time.Time
	LeavingDate       *time.Time
	ProbationEndDate  *time.Time
	Status            Status
	BankName          *string
	BankAccountNumber *string
	PaymentMethod     string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// EmailAddress returns the trimmed email or an empty string.
func (e Employee) EmailAddress() string {
	if e.Email == nil {
		return ""
	}
	return *e.Email
}
