package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type CreateEmployeeRequest struct {
	EmployeeCode      string          `json:"employee_code"`
	FullName          string          `json:"full_name"`
	Email             *string         `json:"email,omitempty"`
	Phone             *string         `json:"phone,omitempty"`
	Designation       *string         `json:"designation,omitempty"`
	Department        *string         `json:"department,omitempty"`
	MonthlySalary     decimal.Decimal `json:"monthly_salary"`
	Currency          string          `json:"currency,omitempty"`
	JoiningDate       *string         `json:"joining_date,omitempty"`
	LeavingDate       *string         `json:"leaving_date,omitempty"`
	ProbationEndDate  *string         `json:"probation_end_date,omitempty"`
	Status            string          `json:"status,omitempty"`
	BankName          *string         `json:"bank_name,omitempty"`
	BankAccountNumber *string         `json:"bank_account_number,omitempty"`
	PaymentMethod     string          `json:"payment_method,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeCode = strings.TrimSpace(r.EmployeeCode)
	r.FullName = strings.TrimSpace(r.FullName)

	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee_code is required"})
	} else if !validator.IsValidEmployeeCode(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee_code may only contain letters, digits, '.', '_' and '-'"})
	}
	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "full_name is required"})
	}
	if r.MonthlySalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "monthly_salary", Message: "monthly_salary must not be negative"})
	}
	if r.Status == "" {
		r.Status = string(StatusActive)
	}
	if r.PaymentMethod == "" {
		r.PaymentMethod = PaymentBankTransfer
	}
	errs = append(errs, validateCommon(r.Email, r.Currency, r.Status, r.PaymentMethod, r.JoiningDate, r.LeavingDate, r.ProbationEndDate)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID                string           `json:"-"`
	EmployeeCode      *string          `json:"employee_code,omitempty"`
	FullName          *string          `json:"full_name,omitempty"`
	Email             *string          `json:"email,omitempty"`
	Phone             *string          `json:"phone,omitempty"`
	Designation       *string          `json:"designation,omitempty"`
	Department        *string          `json:"department,omitempty"`
	MonthlySalary     *decimal.Decimal `json:"monthly_salary,omitempty"`
	Currency          *string          `json:"currency,omitempty"`
	JoiningDate       *string          `json:"joining_date,omitempty"`
	LeavingDate       *string          `json:"leaving_date,omitempty"`
	ProbationEndDate  *string          `json:"probation_end_date,omitempty"`
	Status            *string          `json:"status,omitempty"`
	BankName          *string          `json:"bank_name,omitempty"`
	BankAccountNumber *string          `json:"bank_account_number,omitempty"`
	PaymentMethod     *string          `json:"payment_method,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id must be a valid UUID"})
	}
	if r.EmployeeCode != nil && !validator.IsValidEmployeeCode(strings.TrimSpace(*r.EmployeeCode)) {
		errs = append(errs, validator.ValidationError{Field: "employee_code", Message: "employee_code may only contain letters, digits, '.', '_' and '-'"})
	}
	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "full_name cannot be empty"})
	}
	if r.MonthlySalary != nil && r.MonthlySalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "monthly_salary", Message: "monthly_salary must not be negative"})
	}

	currency, status, method := "", "", ""
	if r.Currency != nil {
		currency = *r.Currency
	}
	if r.Status != nil {
		status = *r.Status
	}
	if r.PaymentMethod != nil {
		method = *r.PaymentMethod
	}
	errs = append(errs, validateCommon(r.Email, currency, status, method, r.JoiningDate, r.LeavingDate, r.ProbationEndDate)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateCommon checks fields shared by create and update. Empty strings are
// treated as "not provided".
func validateCommon(email *string, currency, status, method string, joining, leaving, probation *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if email != nil && *email != "" && !validator.IsValidEmail(*email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email must be a valid email address"})
	}
	if currency != "" && len(currency) != 3 {
		errs = append(errs, validator.ValidationError{Field: "currency", Message: "currency must be a 3-letter ISO code"})
	}
	if status != "" && !validator.IsInSlice(status, Statuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of Active, Inactive, Resigned, Terminated"})
	}
	if method != "" && !validator.IsInSlice(method, PaymentMethods) {
		errs = append(errs, validator.ValidationError{Field: "payment_method", Message: "payment_method must be one of Bank Transfer, Cash, Cheque"})
	}

	var joinAt, leaveAt time.Time
	var hasJoin, hasLeave bool
	if joining != nil && *joining != "" {
		if joinAt, hasJoin = validator.IsValidDate(*joining); !hasJoin {
			errs = append(errs, validator.ValidationError{Field: "joining_date", Message: "joining_date must be in YYYY-MM-DD format"})
		}
	}
	if leaving != nil && *leaving != "" {
		if leaveAt, hasLeave = validator.IsValidDate(*leaving); !hasLeave {
			errs = append(errs, validator.ValidationError{Field: "leaving_date", Message: "leaving_date must be in YYYY-MM-DD format"})
		}
	}
	if probation != nil && *probation != "" {
		if _, ok := validator.IsValidDate(*probation); !ok {
			errs = append(errs, validator.ValidationError{Field: "probation_end_date", Message: "probation_end_date must be in YYYY-MM-DD format"})
		}
	}
	if hasJoin && hasLeave && leaveAt.Before(joinAt) {
		errs = append(errs, validator.ValidationError{Field: "leaving_date", Message: "leaving_date must not be before joining_date"})
	}

	return errs
}

// ParseOptionalDate converts an optional YYYY-MM-DD string; empty means nil.
func ParseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}

type EmployeeFilter struct {
	Status *string
	Search *string
	Page   int
	Limit  int
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !validator.IsInSlice(*f.Status, Statuses) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be one of Active, Inactive, Resigned, Terminated"})
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID                string          `json:"id"`
	EmployeeCode      string          `json:"employee_code"`
	FullName          string          `json:"full_name"`
	Email             *string         `json:"email,omitempty"`
	Phone             *string         `json:"phone,omitempty"`
	Designation       *string         `json:"designation,omitempty"`
	Department        *string         `json:"department,omitempty"`
	MonthlySalary     decimal.Decimal `json:"monthly_salary"`
	Currency          string          `json:"currency"`
	JoiningDate       *string         `json:"joining_date,omitempty"`
	LeavingDate       *string         `json:"leaving_date,omitempty"`
	ProbationEndDate  *string         `json:"probation_end_date,omitempty"`
	Status            string          `json:"status"`
	BankName          *string         `json:"bank_name,omitempty"`
	BankAccountNumber *string         `json:"bank_account_number,omitempty"`
	PaymentMethod     string          `json:"payment_method"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Employees  []EmployeeResponse `json:"employees"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                e.ID,
		EmployeeCode:      e.EmployeeCode,
		FullName:          e.FullName,
		Email:             e.Email,
		Phone:             e.Phone,
		Designation:       e.Designation,
		Department:        e.Department,
		MonthlySalary:     e.MonthlySalary,
		Currency:          e.Currency,
		JoiningDate:       formatDate(e.JoiningDate),
		LeavingDate:       formatDate(e.LeavingDate),
		ProbationEndDate:  formatDate(e.ProbationEndDate),
		Status:            string(e.Status),
		BankName:          e.BankName,
		BankAccountNumber: e.BankAccountNumber,
		PaymentMethod:     e.PaymentMethod,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}
