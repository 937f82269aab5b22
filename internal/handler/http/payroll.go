package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	GetDefaults(w http.ResponseWriter, r *http.Request)
	UpdateDefaults(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	defaultsService payroll.DefaultsService
}

func NewPayrollHandler(defaultsService payroll.DefaultsService) PayrollHandler {
	return &payrollHandlerImpl{defaultsService: defaultsService}
}

// ========== DEFAULTS ==========

func (h *payrollHandlerImpl) GetDefaults(w http.ResponseWriter, r *http.Request) {
	result, err := h.defaultsService.GetDefaults(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpdateDefaults(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateDefaultsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	result, err := h.defaultsService.UpdateDefaults(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll defaults saved", result)
}
