package payroll

import "errors"

var (
	ErrDefaultsNotFound = errors.New("payroll defaults not found")
	ErrInvalidLineItem  = errors.New("invalid line item")
)
