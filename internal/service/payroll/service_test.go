package payroll

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const empID = "0190a0b0-0000-7000-8000-000000000001"

type memDefaults struct {
	rows map[string]payroll.Defaults
}

func (m *memDefaults) Get(ctx context.Context, employeeID string) (payroll.Defaults, error) {
	d, ok := m.rows[employeeID]
	if !ok {
		return payroll.Defaults{}, payroll.ErrDefaultsNotFound
	}
	return d, nil
}

func (m *memDefaults) Upsert(ctx context.Context, d payroll.Defaults) (payroll.Defaults, error) {
	m.rows[d.EmployeeID] = d
	return d, nil
}

type stubEmployees struct {
	employee.EmployeeRepository
	emp employee.Employee
}

func (s stubEmployees) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if id != s.emp.ID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return s.emp, nil
}

func newService() (*memDefaults, payroll.DefaultsService) {
	repo := &memDefaults{rows: map[string]payroll.Defaults{}}
	emps := stubEmployees{emp: employee.Employee{ID: empID, FullName: "Asha Rao", MonthlySalary: decimal.NewFromInt(30000)}}
	return repo, NewDefaultsService(repo, emps)
}

func item(name, amount string) payroll.LineItemInput {
	return payroll.LineItemInput{Name: name, Amount: json.RawMessage(amount)}
}

func TestGetDefaults_NothingStored(t *testing.T) {
	_, svc := newService()

	resp, err := svc.GetDefaults(context.Background(), empID)
	require.NoError(t, err)
	assert.False(t, resp.Stored)
	require.Len(t, resp.Earnings, 1)
	assert.Equal(t, payroll.BasicSalary, resp.Earnings[0].Name)
	assert.Equal(t, "30000", resp.Gross.String())
	assert.Empty(t, resp.Deductions)
}

func TestUpdateDefaults_RoundTrip(t *testing.T) {
	repo, svc := newService()

	resp, err := svc.UpdateDefaults(context.Background(), payroll.UpdateDefaultsRequest{
		EmployeeID: empID,
		Earnings:   []payroll.LineItemInput{item(" HRA ", "12000"), item("Special Allowance", `"5000.50"`)},
		Deductions: []payroll.LineItemInput{item("Provident Fund", "1800")},
	})
	require.NoError(t, err)
	assert.True(t, resp.Stored)
	assert.Equal(t, "17000.5", resp.Gross.String())
	assert.Equal(t, "HRA", repo.rows[empID].Earnings[0].Name)

	got, err := svc.GetDefaults(context.Background(), empID)
	require.NoError(t, err)
	require.Len(t, got.Earnings, 3)
	assert.Equal(t, payroll.BasicSalary, got.Earnings[0].Name)
	assert.Equal(t, "47000.5", got.Gross.String())
	assert.Equal(t, "1800", got.Deduction.String())
}

func TestUpdateDefaults_InvalidItems(t *testing.T) {
	repo, svc := newService()

	_, err := svc.UpdateDefaults(context.Background(), payroll.UpdateDefaultsRequest{
		EmployeeID: empID,
		Earnings:   []payroll.LineItemInput{item("HRA", "-1"), item("", "10"), item("Bonus", `"abc"`), item("Tip", "1.005")},
	})
	assert.ErrorIs(t, err, payroll.ErrInvalidLineItem)
	assert.Empty(t, repo.rows)
}

func TestUpdateDefaults_UnknownEmployee(t *testing.T) {
	_, svc := newService()

	_, err := svc.UpdateDefaults(context.Background(), payroll.UpdateDefaultsRequest{
		EmployeeID: "0190a0b0-0000-7000-8000-000000000099",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestResolve_KeepsStoredBasicSalary(t *testing.T) {
	repo, svc := newService()
	repo.rows[empID] = payroll.Defaults{
		EmployeeID: empID,
		Earnings:   []payroll.LineItem{{Name: "HRA", Amount: decimal.NewFromInt(100)}, {Name: payroll.BasicSalary, Amount: decimal.NewFromInt(25000)}},
	}

	d, err := svc.Resolve(context.Background(), employee.Employee{ID: empID, MonthlySalary: decimal.NewFromInt(30000)})
	require.NoError(t, err)
	require.Len(t, d.Earnings, 2)
	assert.Equal(t, "25000", d.Earnings[1].Amount.String())
}
