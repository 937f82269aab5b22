package company

import "errors"

var (
	ErrProfileNotFound = errors.New("company profile not found")
	ErrInvalidLogo     = errors.New("logo must be a png or jpeg image")
	ErrLogoTooLarge    = errors.New("logo must not exceed 2MB")
)
