package increment

import "context"

type IncrementService interface {
	// CreateIncrement appends a ledger entry and updates the employee's
	// salary in one transaction.
	CreateIncrement(ctx context.Context, req CreateIncrementRequest) (IncrementResponse, error)
	ListIncrements(ctx context.Context, employeeID string) ([]IncrementResponse, error)
}
