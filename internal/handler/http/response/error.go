package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/increment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
)

const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	CodeEmptyBatch      = "EMPTY_BATCH"
	CodeInvalidIncr     = "INVALID_INCREMENT"
	CodeNegativeNetPay  = "NEGATIVE_NET_PAY"
	CodeEmailDelivery   = "EMAIL_DELIVERY_FAILED"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

// mapping turns a sentinel into a response. An empty message echoes the
// error text.
type mapping struct {
	target  error
	status  int
	code    string
	message string
}

var sentinels = []mapping{
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeUnauthorized, ""},
	{auth.ErrInvalidToken, http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired token"},
	{auth.ErrTokenRevoked, http.StatusUnauthorized, CodeUnauthorized, "Token revoked"},
	{user.ErrAdminPrivilegeRequired, http.StatusForbidden, CodeForbidden, "Admin privilege required"},
	{user.ErrUserNotFound, http.StatusNotFound, CodeNotFound, "User not found"},

	{employee.ErrEmployeeNotFound, http.StatusNotFound, CodeNotFound, "Employee not found"},
	{employee.ErrInvalidEmployeeID, http.StatusBadRequest, CodeBadRequest, "Invalid employee ID"},
	{employee.ErrEmployeeCodeExists, http.StatusConflict, CodeConflict, "Employee code already exists"},
	{employee.ErrEmployeeHasPayslips, http.StatusConflict, CodeConflict, "Employee has payslips and cannot be deleted"},

	{payroll.ErrDefaultsNotFound, http.StatusNotFound, CodeNotFound, "Payroll defaults not found"},
	{attendance.ErrInvalidSpreadsheet, http.StatusBadRequest, CodeBadRequest, ""},
	{attendance.ErrNoPunchLogs, http.StatusUnprocessableEntity, CodeEmptyBatch, ""},
	{increment.ErrAmbiguousChange, http.StatusUnprocessableEntity, CodeInvalidIncr, ""},
	{increment.ErrPercentageOnZeroSalary, http.StatusUnprocessableEntity, CodeInvalidIncr, ""},
	{increment.ErrNegativeSalary, http.StatusUnprocessableEntity, CodeInvalidIncr, ""},

	{payslip.ErrPayslipNotFound, http.StatusNotFound, CodeNotFound, "Payslip not found"},
	{payslip.ErrPDFNotFound, http.StatusNotFound, CodeNotFound, "Payslip document not found"},
	{payslip.ErrPayslipAlreadyExists, http.StatusConflict, CodeConflict, ""},
	{payslip.ErrNegativeNetPay, http.StatusUnprocessableEntity, CodeNegativeNetPay, ""},
	{payslip.ErrEmptyBatch, http.StatusUnprocessableEntity, CodeEmptyBatch, ""},

	{company.ErrProfileNotFound, http.StatusNotFound, CodeNotFound, "Company profile not found"},
	{company.ErrInvalidLogo, http.StatusBadRequest, CodeBadRequest, ""},
	{company.ErrLogoTooLarge, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, ""},
}

// HandleError maps domain errors to HTTP responses.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		Error(w, http.StatusUnprocessableEntity, CodeValidation, "Validation failed", validationErrs.ToMap())
		return
	}

	if handlePayslipFailure(w, err) {
		return
	}

	for _, m := range sentinels {
		if !errors.Is(err, m.target) {
			continue
		}
		message := m.message
		if message == "" {
			message = err.Error()
		}
		Error(w, m.status, m.code, message, nil)
		return
	}

	if errors.Is(err, payslip.ErrComputation) {
		slog.Error("payslip computation invariant violated", "error", err)
		Error(w, http.StatusInternalServerError, CodeInternal, "Payslip computation failed", nil)
		return
	}

	slog.Error("unhandled error", "error", err)
	Error(w, http.StatusInternalServerError, CodeInternal, "An unexpected error occurred", nil)
}

// handlePayslipFailure answers the render, persistence and delivery errors,
// which carry context the client needs.
func handlePayslipFailure(w http.ResponseWriter, err error) bool {
	var renderErr *payslip.RenderIOError
	var persistErr *payslip.PersistenceError
	var deliveryErr *payslip.EmailDeliveryError

	switch {
	case errors.As(err, &renderErr):
		slog.Error("payslip render failed", "path", renderErr.Path, "error", renderErr.Err)
		Error(w, http.StatusInternalServerError, CodeInternal, "Failed to render the payslip document; no payslip was saved", nil)
	case errors.As(err, &persistErr):
		slog.Error("payslip persistence failed", "payslip_id", persistErr.PayslipID, "pdf_path", persistErr.PDFPath, "orphaned", persistErr.Orphaned, "error", persistErr.Err)
		message := "Failed to save the payslip"
		if persistErr.Orphaned {
			message = "Failed to save the payslip; its PDF may exist without a matching record at " + persistErr.PDFPath
		}
		Error(w, http.StatusInternalServerError, CodeInternal, message, nil)
	case errors.As(err, &deliveryErr):
		Error(w, http.StatusBadGateway, CodeEmailDelivery, deliveryErr.Error(), nil)
	default:
		return false
	}
	return true
}
