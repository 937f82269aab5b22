package payslip

import (
	"context"
	"io"
)

type PayslipService interface {
	GeneratePayslip(ctx context.Context, req GeneratePayslipRequest) (PayslipResponse, error)
	GetPayslip(ctx context.Context, id string) (PayslipResponse, error)
	ListPayslips(ctx context.Context, filter PayslipFilter) (ListPayslipResponse, error)
	OpenDocument(ctx context.Context, id string) (Document, error)
	// DeletePayslip removes the record and its document irreversibly.
	DeletePayslip(ctx context.Context, id string) error
	// SendPayslip emails the document and stamps email_sent_at on success.
	// Repeated sends are allowed.
	SendPayslip(ctx context.Context, id string) (PayslipResponse, error)
	BulkGenerate(ctx context.Context, req BulkGenerateRequest) (BulkResult, error)
	BulkSend(ctx context.Context, req IDsRequest) (BulkResult, error)
	// Export writes a zip archive of the selected documents plus a payroll
	// register workbook.
	Export(ctx context.Context, req IDsRequest, w io.Writer) error
	// ReconcileDocuments removes documents that have no record, returning how
	// many were deleted.
	ReconcileDocuments(ctx context.Context) (int, error)
}
