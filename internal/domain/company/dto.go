package company

import (
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

type ProfileResponse struct {
	Name       string    `json:"company_name"`
	Subtitle   *string   `json:"subtitle,omitempty"`
	Address    *string   `json:"company_address,omitempty"`
	FooterText *string   `json:"footer_text,omitempty"`
	Currency   string    `json:"currency"`
	LogoURL    *string   `json:"logo_url,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type UpdateProfileRequest struct {
	Name       *string `json:"company_name,omitempty"`
	Subtitle   *string `json:"subtitle,omitempty"`
	Address    *string `json:"company_address,omitempty"`
	FooterText *string `json:"footer_text,omitempty"`
	Currency   *string `json:"currency,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{Field: "company_name", Message: "company_name cannot be empty"})
		}
		if len(*r.Name) > 255 {
			errs = append(errs, validator.ValidationError{Field: "company_name", Message: "company_name must not exceed 255 characters"})
		}
	}
	if r.Currency != nil && len(*r.Currency) != 3 {
		errs = append(errs, validator.ValidationError{Field: "currency", Message: "currency must be a 3-letter ISO code"})
	}
	if r.FooterText != nil && len(*r.FooterText) > 500 {
		errs = append(errs, validator.ValidationError{Field: "footer_text", Message: "footer_text must not exceed 500 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
