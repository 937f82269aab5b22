package payslip

import (
	"context"
	"time"
)

type PayslipRepository interface {
	// Create fails with ErrPayslipAlreadyExists when the employee already has
	// a payslip for the same period.
	Create(ctx context.Context, p Payslip) (Payslip, error)
	GetByID(ctx context.Context, id string) (Payslip, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, start, end time.Time) (Payslip, error)
	List(ctx context.Context, filter PayslipFilter) ([]Payslip, int64, error)
	ListByIDs(ctx context.Context, ids []string) ([]Payslip, error)
	MarkEmailSent(ctx context.Context, id string, sentAt time.Time) error
	Delete(ctx context.Context, id string) error
	// PDFPaths returns every document path referenced by a record.
	PDFPaths(ctx context.Context) (map[string]struct{}, error)
}
