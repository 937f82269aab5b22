package employee

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEmployeeRepo struct {
	mock.Mock
}

func (m *mockEmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(employee.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(employee.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) GetByIDForUpdate(ctx context.Context, id string) (employee.Employee, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(employee.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(employee.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]employee.Employee), args.Get(1).(int64), args.Error(2)
}

func (m *mockEmployeeRepo) ListForPayroll(ctx context.Context, ids []string) ([]employee.Employee, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]employee.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	args := m.Called(ctx, e)
	if fn, ok := args.Get(0).(func(context.Context, employee.Employee) employee.Employee); ok {
		return fn(ctx, e), args.Error(1)
	}
	return args.Get(0).(employee.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) UpdateSalary(ctx context.Context, id string, salary decimal.Decimal) error {
	return m.Called(ctx, id, salary).Error(0)
}

func (m *mockEmployeeRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type nopRecorder struct{ actions []string }

func (r *nopRecorder) Record(ctx context.Context, action, entityType, entityID string, err error, detail string) {
	r.actions = append(r.actions, action)
}

const empID = "0190a0b0-0000-7000-8000-000000000001"

func strPtr(s string) *string { return &s }

func TestCreateEmployee(t *testing.T) {
	repo := &mockEmployeeRepo{}
	svc := NewEmployeeService(repo, &nopRecorder{}, "INR")

	repo.On("Create", mock.Anything, mock.MatchedBy(func(e employee.Employee) bool {
		return e.EmployeeCode == "EMP-001" &&
			e.Currency == "INR" &&
			e.Status == employee.StatusActive &&
			e.PaymentMethod == employee.PaymentBankTransfer &&
			*e.Email == "asha@example.com" &&
			e.JoiningDate.Equal(time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC))
	})).Return(employee.Employee{ID: empID, EmployeeCode: "EMP-001", FullName: "Asha Rao", Currency: "INR", Status: employee.StatusActive}, nil)

	resp, err := svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{
		EmployeeCode:  " EMP-001 ",
		FullName:      "Asha Rao",
		Email:         strPtr("Asha@Example.com"),
		MonthlySalary: decimal.NewFromInt(30000),
		JoiningDate:   strPtr("2024-06-16"),
	})
	require.NoError(t, err)
	assert.Equal(t, empID, resp.ID)
	repo.AssertExpectations(t)
}

func TestCreateEmployee_Validation(t *testing.T) {
	repo := &mockEmployeeRepo{}
	svc := NewEmployeeService(repo, &nopRecorder{}, "INR")

	_, err := svc.CreateEmployee(context.Background(), employee.CreateEmployeeRequest{
		FullName:      "Nobody",
		MonthlySalary: decimal.NewFromInt(-1),
		JoiningDate:   strPtr("2024-06-16"),
		LeavingDate:   strPtr("2024-06-01"),
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := map[string]bool{}
	for _, e := range verrs {
		fields[e.Field] = true
	}
	assert.True(t, fields["employee_code"])
	assert.True(t, fields["monthly_salary"])
	assert.True(t, fields["leaving_date"])
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateEmployee_Partial(t *testing.T) {
	repo := &mockEmployeeRepo{}
	svc := NewEmployeeService(repo, &nopRecorder{}, "INR")

	current := employee.Employee{
		ID: empID, EmployeeCode: "EMP-001", FullName: "Asha Rao", Designation: strPtr("Engineer"),
		MonthlySalary: decimal.NewFromInt(30000), Currency: "INR", Status: employee.StatusActive,
		PaymentMethod: employee.PaymentBankTransfer,
	}
	repo.On("GetByID", mock.Anything, empID).Return(current, nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(func(ctx context.Context, e employee.Employee) employee.Employee {
		return e
	}, nil)

	resp, err := svc.UpdateEmployee(context.Background(), employee.UpdateEmployeeRequest{
		ID:          empID,
		Designation: strPtr(""),
		Status:      strPtr("Resigned"),
	})
	require.NoError(t, err)
	assert.Nil(t, resp.Designation)
	assert.Equal(t, "Resigned", resp.Status)
	assert.Equal(t, "Asha Rao", resp.FullName)
}

func TestUpdateEmployee_LeavingBeforeStoredJoining(t *testing.T) {
	repo := &mockEmployeeRepo{}
	svc := NewEmployeeService(repo, &nopRecorder{}, "INR")

	joined := time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)
	repo.On("GetByID", mock.Anything, empID).Return(employee.Employee{ID: empID, JoiningDate: &joined}, nil)

	_, err := svc.UpdateEmployee(context.Background(), employee.UpdateEmployeeRequest{ID: empID, LeavingDate: strPtr("2024-06-01")})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestListEmployees(t *testing.T) {
	repo := &mockEmployeeRepo{}
	svc := NewEmployeeService(repo, &nopRecorder{}, "INR")

	repo.On("List", mock.Anything, mock.Anything).Return([]employee.Employee{{ID: empID}}, int64(21), nil)

	resp, err := svc.ListEmployees(context.Background(), employee.EmployeeFilter{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, "21-21 of 21", resp.Showing)
	assert.Len(t, resp.Employees, 1)
}

func TestDeleteEmployee_WithPayslips(t *testing.T) {
	repo := &mockEmployeeRepo{}
	rec := &nopRecorder{}
	svc := NewEmployeeService(repo, rec, "INR")

	repo.On("Delete", mock.Anything, empID).Return(employee.ErrEmployeeHasPayslips)

	err := svc.DeleteEmployee(context.Background(), empID)
	assert.ErrorIs(t, err, employee.ErrEmployeeHasPayslips)
	assert.Equal(t, []string{"employee.delete"}, rec.actions)
}
