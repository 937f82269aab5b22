package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// maxImportSize bounds the punch-log workbook upload.
const maxImportSize = 10 << 20

type AttendanceHandler interface {
	UpsertAttendance(w http.ResponseWriter, r *http.Request)
	ListAttendance(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
	IngestPunchLogs(w http.ResponseWriter, r *http.Request)
	ImportPunchLogs(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// UpsertAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpsertAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpsertAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")
	req.Date = chi.URLParam(r, "date")

	result, err := h.attendanceService.Upsert(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListAttendance(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.List(r.Context(), rangeFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetSummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.Summary(r.Context(), rangeFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// IngestPunchLogs implements AttendanceHandler. The body is either
// {"logs": [...]} or a bare array of logs.
func (h *attendanceHandlerImpl) IngestPunchLogs(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	var req attendance.IngestPunchLogsRequest
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &req.Logs); err != nil {
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	} else if err := json.Unmarshal(raw, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.Source = r.URL.Query().Get("source")

	result, err := h.attendanceService.IngestPunchLogs(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ImportPunchLogs implements AttendanceHandler.
func (h *attendanceHandlerImpl) ImportPunchLogs(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Field 'file' is required", nil)
		return
	}
	defer file.Close()

	result, err := h.attendanceService.ImportPunchLogs(r.Context(), file)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func rangeFilter(r *http.Request) attendance.RangeFilter {
	return attendance.RangeFilter{
		EmployeeID: chi.URLParam(r, "id"),
		From:       r.URL.Query().Get("from"),
		To:         r.URL.Query().Get("to"),
	}
}
