package audit

import "context"

type AuditRepository interface {
	Create(ctx context.Context, e Entry) error
	List(ctx context.Context, filter Filter) ([]Entry, int64, error)
}
