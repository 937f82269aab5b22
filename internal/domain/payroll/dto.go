package payroll

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// LineItemInput keeps the raw amount so a non-numeric value is reported as a
// field error instead of failing the whole request decode.
type LineItemInput struct {
	Name   string          `json:"name"`
	Amount json.RawMessage `json:"amount"`
}

// ParseLineItems validates and converts request line items. Names are
// trimmed; amounts must be numeric, non-negative and carry at most two
// decimal places.
func ParseLineItems(field string, inputs []LineItemInput) ([]LineItem, validator.ValidationErrors) {
	var errs validator.ValidationErrors
	items := make([]LineItem, 0, len(inputs))

	for i, in := range inputs {
		prefix := fmt.Sprintf("%s[%d]", field, i)
		name := strings.TrimSpace(in.Name)
		if name == "" {
			errs = append(errs, validator.ValidationError{Field: prefix + ".name", Message: "name is required"})
		}

		amount, err := validator.ParseAmount(string(in.Amount))
		if err != nil {
			errs = append(errs, validator.ValidationError{Field: prefix + ".amount", Message: err.Error()})
			continue
		}
		if amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: prefix + ".amount", Message: "amount must not be negative"})
			continue
		}
		if !amount.Equal(amount.Round(2)) {
			errs = append(errs, validator.ValidationError{Field: prefix + ".amount", Message: "amount must have at most 2 decimal places"})
			continue
		}
		items = append(items, LineItem{Name: name, Amount: amount})
	}

	return items, errs
}

type UpdateDefaultsRequest struct {
	EmployeeID string          `json:"-"`
	Earnings   []LineItemInput `json:"earnings"`
	Deductions []LineItemInput `json:"deductions"`

	parsedEarnings   []LineItem
	parsedDeductions []LineItem
}

func (r *UpdateDefaultsRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}

	earnings, earnErrs := ParseLineItems("earnings", r.Earnings)
	deductions, dedErrs := ParseLineItems("deductions", r.Deductions)
	errs = append(errs, earnErrs...)
	errs = append(errs, dedErrs...)

	if len(errs) > 0 {
		if len(earnErrs) > 0 || len(dedErrs) > 0 {
			return validator.Tag(errs, ErrInvalidLineItem)
		}
		return errs
	}

	r.parsedEarnings = earnings
	r.parsedDeductions = deductions
	return nil
}

// Items returns the parsed line items; valid only after Validate succeeds.
func (r *UpdateDefaultsRequest) Items() (earnings, deductions []LineItem) {
	return r.parsedEarnings, r.parsedDeductions
}

type DefaultsResponse struct {
	EmployeeID string          `json:"employee_id"`
	Earnings   []LineItem      `json:"earnings"`
	Deductions []LineItem      `json:"deductions"`
	Gross      decimal.Decimal `json:"gross_pay"`
	Deduction  decimal.Decimal `json:"total_deductions"`
	Stored     bool            `json:"stored"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

func ToResponse(d Defaults, stored bool) DefaultsResponse {
	return DefaultsResponse{
		EmployeeID: d.EmployeeID,
		Earnings:   d.Earnings,
		Deductions: d.Deductions,
		Gross:      Sum(d.Earnings),
		Deduction:  Sum(d.Deductions),
		Stored:     stored,
		UpdatedAt:  d.UpdatedAt,
	}
}
