package payslip

import (
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
)

var (
	ErrPayslipNotFound      = errors.New("payslip not found")
	ErrPayslipAlreadyExists = errors.New("a payslip for this employee and period already exists")
	ErrInvalidLineItem      = payroll.ErrInvalidLineItem
	ErrMissingEmployee      = errors.New("employee identity is required")
	ErrNegativeNetPay       = errors.New("net pay must not be negative")
	ErrComputation          = errors.New("payslip computation invariant violated")
	ErrPDFNotFound          = errors.New("payslip document not found")
	ErrEmptyBatch           = errors.New("no items to process")
)

// RenderIOError reports a failure producing or writing the PDF. Nothing is
// left at Path when it is returned.
type RenderIOError struct {
	Path string
	Err  error
}

func (e *RenderIOError) Error() string {
	return fmt.Sprintf("failed to render payslip document %s: %v", e.Path, e.Err)
}

func (e *RenderIOError) Unwrap() error { return e.Err }

// PersistenceError reports a failed database write after the PDF was written.
// Orphaned is true when the PDF could not be removed again.
type PersistenceError struct {
	PayslipID string
	PDFPath   string
	Orphaned  bool
	Err       error
}

func (e *PersistenceError) Error() string {
	if e.Orphaned {
		return fmt.Sprintf("failed to save payslip %s, document %s exists without a record: %v", e.PayslipID, e.PDFPath, e.Err)
	}
	return fmt.Sprintf("failed to save payslip %s: %v", e.PayslipID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// EmailDeliveryError reports a failed send. email_sent_at is untouched.
type EmailDeliveryError struct {
	PayslipID string
	Recipient string
	Err       error
}

func (e *EmailDeliveryError) Error() string {
	if e.Recipient == "" {
		return fmt.Sprintf("failed to email payslip %s: %v", e.PayslipID, e.Err)
	}
	return fmt.Sprintf("failed to email payslip %s to %s: %v", e.PayslipID, e.Recipient, e.Err)
}

func (e *EmailDeliveryError) Unwrap() error { return e.Err }
