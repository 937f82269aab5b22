package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/increment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type IncrementHandler interface {
	CreateIncrement(w http.ResponseWriter, r *http.Request)
	ListIncrements(w http.ResponseWriter, r *http.Request)
}

type incrementHandlerImpl struct {
	incrementService increment.IncrementService
}

func NewIncrementHandler(incrementService increment.IncrementService) IncrementHandler {
	return &incrementHandlerImpl{incrementService: incrementService}
}

func (h *incrementHandlerImpl) CreateIncrement(w http.ResponseWriter, r *http.Request) {
	var req increment.CreateIncrementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	result, err := h.incrementService.CreateIncrement(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Increment recorded", result)
}

func (h *incrementHandlerImpl) ListIncrements(w http.ResponseWriter, r *http.Request) {
	result, err := h.incrementService.ListIncrements(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
