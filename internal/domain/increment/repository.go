package increment

import "context"

type IncrementRepository interface {
	Create(ctx context.Context, e Entry) (Entry, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Entry, error)
}
