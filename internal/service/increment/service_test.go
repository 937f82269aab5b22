package increment

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/increment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const empID = "0190a0b0-0000-7000-8000-000000000001"

// snapshotTx restores the employee salary when fn fails, standing in for a
// database rollback.
type snapshotTx struct {
	emps *memEmployees
}

func (s snapshotTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	saved := s.emps.emp
	if err := fn(ctx); err != nil {
		s.emps.emp = saved
		return err
	}
	return nil
}

type memEmployees struct {
	employee.EmployeeRepository
	emp     employee.Employee
	locked  int
	failPay error
}

func (m *memEmployees) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if id != m.emp.ID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return m.emp, nil
}

func (m *memEmployees) GetByIDForUpdate(ctx context.Context, id string) (employee.Employee, error) {
	m.locked++
	return m.GetByID(ctx, id)
}

func (m *memEmployees) UpdateSalary(ctx context.Context, id string, salary decimal.Decimal) error {
	if m.failPay != nil {
		return m.failPay
	}
	m.emp.MonthlySalary = salary
	return nil
}

type memIncrements struct {
	entries []increment.Entry
}

func (m *memIncrements) Create(ctx context.Context, e increment.Entry) (increment.Entry, error) {
	e.ID = "0190a0b0-0000-7000-8000-0000000000aa"
	m.entries = append(m.entries, e)
	return e, nil
}

func (m *memIncrements) ListByEmployee(ctx context.Context, employeeID string) ([]increment.Entry, error) {
	out := make([]increment.Entry, 0, len(m.entries))
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].EmployeeID == employeeID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

type recorder struct {
	statuses []error
}

func (r *recorder) Record(ctx context.Context, action, entityType, entityID string, err error, detail string) {
	r.statuses = append(r.statuses, err)
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newHarness() (*memEmployees, *memIncrements, *recorder, increment.IncrementService) {
	emps := &memEmployees{emp: employee.Employee{ID: empID, FullName: "Asha Rao", MonthlySalary: decimal.NewFromInt(30000)}}
	incs := &memIncrements{}
	rec := &recorder{}
	return emps, incs, rec, NewIncrementService(snapshotTx{emps: emps}, emps, incs, rec)
}

func TestCreateIncrement_Percentage(t *testing.T) {
	emps, incs, rec, svc := newHarness()
	ctx := audit.WithActor(context.Background(), "admin@example.com")

	resp, err := svc.CreateIncrement(ctx, increment.CreateIncrementRequest{
		EmployeeID:          empID,
		IncrementPercentage: dec("10"),
		EffectiveDate:       "2024-07-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "30000.00", resp.OldSalary.StringFixed(2))
	assert.Equal(t, "33000.00", resp.NewSalary.StringFixed(2))
	assert.Equal(t, "2024-07-01", resp.EffectiveDate)
	require.NotNil(t, resp.CreatedBy)
	assert.Equal(t, "admin@example.com", *resp.CreatedBy)

	assert.Equal(t, "33000", emps.emp.MonthlySalary.String())
	assert.Equal(t, 1, emps.locked)
	assert.Len(t, incs.entries, 1)
	require.Len(t, rec.statuses, 1)
	assert.NoError(t, rec.statuses[0])
}

func TestCreateIncrement_Chained(t *testing.T) {
	emps, _, _, svc := newHarness()
	ctx := context.Background()

	_, err := svc.CreateIncrement(ctx, increment.CreateIncrementRequest{EmployeeID: empID, IncrementAmount: dec("2000"), EffectiveDate: "2024-07-01"})
	require.NoError(t, err)
	resp, err := svc.CreateIncrement(ctx, increment.CreateIncrementRequest{EmployeeID: empID, NewSalary: dec("30000"), EffectiveDate: "2024-08-01"})
	require.NoError(t, err)

	assert.Equal(t, "32000.00", resp.OldSalary.StringFixed(2))
	assert.Equal(t, "-2000.00", resp.IncrementAmount.StringFixed(2))
	assert.Equal(t, "30000", emps.emp.MonthlySalary.String())

	list, err := svc.ListIncrements(ctx, empID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-08-01", list[0].EffectiveDate)
}

func TestCreateIncrement_NegativeResult(t *testing.T) {
	emps, incs, rec, svc := newHarness()

	_, err := svc.CreateIncrement(context.Background(), increment.CreateIncrementRequest{
		EmployeeID:      empID,
		IncrementAmount: dec("-40000"),
		EffectiveDate:   "2024-07-01",
	})
	assert.ErrorIs(t, err, increment.ErrNegativeSalary)
	assert.Empty(t, incs.entries)
	assert.Equal(t, "30000", emps.emp.MonthlySalary.String())
	require.Len(t, rec.statuses, 1)
	assert.Error(t, rec.statuses[0])
}

func TestCreateIncrement_SalaryUpdateFails(t *testing.T) {
	emps, _, _, svc := newHarness()
	emps.failPay = errors.New("connection reset")

	_, err := svc.CreateIncrement(context.Background(), increment.CreateIncrementRequest{
		EmployeeID:      empID,
		IncrementAmount: dec("100"),
		EffectiveDate:   "2024-07-01",
	})
	assert.ErrorContains(t, err, "connection reset")
	assert.Equal(t, "30000", emps.emp.MonthlySalary.String())
}

func TestCreateIncrement_UnknownEmployee(t *testing.T) {
	_, _, _, svc := newHarness()

	_, err := svc.CreateIncrement(context.Background(), increment.CreateIncrementRequest{
		EmployeeID:      "0190a0b0-0000-7000-8000-000000000099",
		IncrementAmount: dec("100"),
		EffectiveDate:   "2024-07-01",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = svc.ListIncrements(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, employee.ErrInvalidEmployeeID)
}
