package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayslipHandler interface {
	GeneratePayslip(w http.ResponseWriter, r *http.Request)
	ListPayslips(w http.ResponseWriter, r *http.Request)
	GetPayslip(w http.ResponseWriter, r *http.Request)
	DownloadPayslip(w http.ResponseWriter, r *http.Request)
	DeletePayslip(w http.ResponseWriter, r *http.Request)
	SendPayslip(w http.ResponseWriter, r *http.Request)
	BulkGenerate(w http.ResponseWriter, r *http.Request)
	BulkSend(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type payslipHandlerImpl struct {
	payslipService payslip.PayslipService
}

func NewPayslipHandler(payslipService payslip.PayslipService) PayslipHandler {
	return &payslipHandlerImpl{payslipService: payslipService}
}

// GeneratePayslip implements PayslipHandler.
func (h *payslipHandlerImpl) GeneratePayslip(w http.ResponseWriter, r *http.Request) {
	var req payslip.GeneratePayslipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payslipService.GeneratePayslip(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Payslip generated successfully"
	if result.DeliveryError != nil {
		message = "Payslip generated but email delivery failed"
	}
	response.Created(w, message, result)
}

// ListPayslips implements PayslipHandler.
func (h *payslipHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := payslip.PayslipFilter{
		EmployeeID: optionalQuery(query, "employee_id"),
		From:       optionalQuery(query, "from"),
		To:         optionalQuery(query, "to"),
		Page:       intQuery(query, "page"),
		Limit:      intQuery(query, "limit"),
		SortBy:     query.Get("sort_by"),
		SortOrder:  query.Get("sort_order"),
	}

	result, err := h.payslipService.ListPayslips(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Payslips, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// GetPayslip implements PayslipHandler.
func (h *payslipHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	result, err := h.payslipService.GetPayslip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DownloadPayslip streams the stored PDF. ?download=1 asks the browser to
// save it instead of displaying it.
func (h *payslipHandlerImpl) DownloadPayslip(w http.ResponseWriter, r *http.Request) {
	doc, err := h.payslipService.OpenDocument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer doc.Content.Close()

	disposition := "inline"
	if r.URL.Query().Get("download") == "1" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, doc.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, doc.Content); err != nil {
		slog.Error("Failed to stream payslip", "filename", doc.Filename, "error", err)
	}
}

// DeletePayslip implements PayslipHandler.
func (h *payslipHandlerImpl) DeletePayslip(w http.ResponseWriter, r *http.Request) {
	if err := h.payslipService.DeletePayslip(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip deleted successfully", nil)
}

// SendPayslip implements PayslipHandler.
func (h *payslipHandlerImpl) SendPayslip(w http.ResponseWriter, r *http.Request) {
	result, err := h.payslipService.SendPayslip(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip sent", result)
}

// BulkGenerate implements PayslipHandler. Item failures are reported in the
// body; the request itself succeeds.
func (h *payslipHandlerImpl) BulkGenerate(w http.ResponseWriter, r *http.Request) {
	var req payslip.BulkGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payslipService.BulkGenerate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// BulkSend implements PayslipHandler.
func (h *payslipHandlerImpl) BulkSend(w http.ResponseWriter, r *http.Request) {
	var req payslip.IDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payslipService.BulkSend(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export implements PayslipHandler. Headers are deferred until the archive
// produces its first byte so an early failure still gets a JSON error.
func (h *payslipHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	var req payslip.IDsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	filename := fmt.Sprintf("payslips-%s.zip", time.Now().Format("20060102-150405"))
	zw := &lazyWriter{w: w, contentType: "application/zip", filename: filename}
	if err := h.payslipService.Export(r.Context(), req, zw); err != nil {
		if !zw.started {
			response.HandleError(w, err)
			return
		}
		slog.Error("Payslip export aborted mid-stream", "error", err)
	}
}

// lazyWriter writes response headers on the first Write.
type lazyWriter struct {
	w           http.ResponseWriter
	contentType string
	filename    string
	started     bool
}

func (l *lazyWriter) Write(p []byte) (int, error) {
	if !l.started {
		l.started = true
		l.w.Header().Set("Content-Type", l.contentType)
		l.w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", l.filename))
		l.w.WriteHeader(http.StatusOK)
	}
	return l.w.Write(p)
}
