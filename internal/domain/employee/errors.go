package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmployeeCodeExists  = errors.New("employee code already exists")
	ErrEmployeeHasPayslips = errors.New("employee has payslips and cannot be deleted")
	ErrInvalidEmployeeID   = errors.New("invalid employee id")
)
