package http

import (
	"net/http"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
)

type AuditHandler interface {
	ListEntries(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	auditService audit.AuditService
}

func NewAuditHandler(auditService audit.AuditService) AuditHandler {
	return &auditHandlerImpl{auditService: auditService}
}

func (h *auditHandlerImpl) ListEntries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := audit.Filter{
		Action:   optionalQuery(query, "action"),
		EntityID: optionalQuery(query, "entity_id"),
		Page:     intQuery(query, "page"),
		Limit:    intQuery(query, "limit"),
	}

	result, err := h.auditService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Entries, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}
