package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/audit"
)

type AuditServiceImpl struct {
	auditRepo audit.AuditRepository
	logger    *slog.Logger
}

func NewAuditService(auditRepo audit.AuditRepository, logger *slog.Logger) audit.AuditService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditServiceImpl{
		auditRepo: auditRepo,
		logger:    logger.With("component", "audit"),
	}
}

// Record implements audit.Recorder. The entry is written outside any caller
// transaction so a rollback does not erase the record of the failure.
func (s *AuditServiceImpl) Record(ctx context.Context, action, entityType, entityID string, err error, detail string) {
	entry := audit.Entry{
		Actor:      audit.ActorFromContext(ctx),
		Action:     action,
		EntityType: entityType,
		Status:     audit.StatusSuccess,
	}
	if entityID != "" {
		entry.EntityID = &entityID
	}
	if err != nil {
		entry.Status = audit.StatusFailure
		if detail == "" {
			detail = err.Error()
		} else {
			detail = detail + ": " + err.Error()
		}
	}
	if detail != "" {
		entry.Detail = &detail
	}

	if writeErr := s.auditRepo.Create(context.WithoutCancel(ctx), entry); writeErr != nil {
		s.logger.Error("failed to write audit entry",
			"action", action,
			"entity_type", entityType,
			"entity_id", entityID,
			"status", entry.Status,
			"error", writeErr,
		)
	}
}

// List implements audit.AuditService.
func (s *AuditServiceImpl) List(ctx context.Context, filter audit.Filter) (audit.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return audit.ListResponse{}, err
	}

	entries, total, err := s.auditRepo.List(ctx, filter)
	if err != nil {
		return audit.ListResponse{}, fmt.Errorf("failed to list audit entries: %w", err)
	}

	responses := make([]audit.EntryResponse, 0, len(entries))
	for _, e := range entries {
		responses = append(responses, audit.EntryResponse{
			ID:         e.ID,
			Actor:      e.Actor,
			Action:     e.Action,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Status:     e.Status,
			Detail:     e.Detail,
			CreatedAt:  e.CreatedAt,
		})
	}

	return audit.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Entries:    responses,
	}, nil
}
