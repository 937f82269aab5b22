package audit

import "context"

// Recorder writes audit entries. Failures are logged, never returned, so an
// audit outage cannot mask the outcome being audited.
type Recorder interface {
	Record(ctx context.Context, action, entityType, entityID string, err error, detail string)
}

type AuditService interface {
	Recorder
	List(ctx context.Context, filter Filter) (ListResponse, error)
}
