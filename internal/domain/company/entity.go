package company

import "time"

// Profile is the single company branding record printed on payslips.
type Profile struct {
	Name       string
	Subtitle   *string
	Address    *string
	FooterText *string
	Currency   string
	LogoPath   *string
	UpdatedAt  time.Time
}
