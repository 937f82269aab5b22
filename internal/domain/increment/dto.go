package increment

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateIncrementRequest struct {
	EmployeeID          string           `json:"-"`
	IncrementPercentage *decimal.Decimal `json:"increment_percentage,omitempty"`
	IncrementAmount     *decimal.Decimal `json:"increment_amount,omitempty"`
	NewSalary           *decimal.Decimal `json:"new_salary,omitempty"`
	EffectiveDate       string           `json:"effective_date"`
	Reason              *string          `json:"reason,omitempty"`

	effectiveDate time.Time
}

func (r *CreateIncrementRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}

	provided := 0
	for _, v := range []*decimal.Decimal{r.IncrementPercentage, r.IncrementAmount, r.NewSalary} {
		if v != nil {
			provided++
		}
	}
	if provided != 1 {
		errs = append(errs, validator.ValidationError{Field: "increment", Message: ErrAmbiguousChange.Error()})
	}
	if r.NewSalary != nil && r.NewSalary.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "new_salary", Message: "new_salary must not be negative"})
	}

	d, ok := validator.IsValidDate(r.EffectiveDate)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "effective_date must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	r.effectiveDate = d
	return nil
}

func (r *CreateIncrementRequest) Change() Change {
	return Change{Percentage: r.IncrementPercentage, Amount: r.IncrementAmount, NewSalary: r.NewSalary}
}

func (r *CreateIncrementRequest) ParsedEffectiveDate() time.Time { return r.effectiveDate }

type IncrementResponse struct {
	ID                  string          `json:"id"`
	EmployeeID          string          `json:"employee_id"`
	OldSalary           decimal.Decimal `json:"old_salary"`
	NewSalary           decimal.Decimal `json:"new_salary"`
	IncrementAmount     decimal.Decimal `json:"increment_amount"`
	IncrementPercentage decimal.Decimal `json:"increment_percentage"`
	EffectiveDate       string          `json:"effective_date"`
	Reason              *string         `json:"reason,omitempty"`
	CreatedBy           *string         `json:"created_by,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
}

func ToResponse(e Entry) IncrementResponse {
	return IncrementResponse{
		ID:                  e.ID,
		EmployeeID:          e.EmployeeID,
		OldSalary:           e.OldSalary,
		NewSalary:           e.NewSalary,
		IncrementAmount:     e.IncrementAmount,
		IncrementPercentage: e.IncrementPercentage,
		EffectiveDate:       e.EffectiveDate.Format("2006-01-02"),
		Reason:              e.Reason,
		CreatedBy:           e.CreatedBy,
		CreatedAt:           e.CreatedAt,
	}
}
