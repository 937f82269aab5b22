package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/increment"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createEmployee(t *testing.T, repo employee.EmployeeRepository, code, name string) employee.Employee {
	t.Helper()
	emp, err := repo.Create(context.Background(), employee.Employee{
		EmployeeCode:  code,
		FullName:      name,
		MonthlySalary: decimal.NewFromInt(50000),
		Currency:      "INR",
		Status:        employee.StatusActive,
		PaymentMethod: employee.PaymentBankTransfer,
	})
	require.NoError(t, err)
	return emp
}

func TestEmployeeRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(db)

	bob := createEmployee(t, repo, "EMP-002", "Bob")
	alice := createEmployee(t, repo, "EMP-001", "Alice")
	assert.True(t, bob.MonthlySalary.Equal(decimal.NewFromInt(50000)))

	_, err := repo.Create(ctx, employee.Employee{EmployeeCode: "EMP-001", FullName: "Dup", Currency: "INR", Status: employee.StatusActive, PaymentMethod: employee.PaymentCash})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	list, err := repo.ListForPayroll(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, alice.ID, list[0].ID)

	require.NoError(t, repo.UpdateSalary(ctx, alice.ID, decimal.RequireFromString("61000.50")))
	got, err := repo.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "61000.5", got.MonthlySalary.String())

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestPayrollDefaultsRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	emp := createEmployee(t, postgresql.NewEmployeeRepository(db), "EMP-001", "Alice")
	repo := postgresql.NewPayrollDefaultsRepository(db)

	_, err := repo.Get(ctx, emp.ID)
	assert.ErrorIs(t, err, payroll.ErrDefaultsNotFound)

	saved, err := repo.Upsert(ctx, payroll.Defaults{
		EmployeeID: emp.ID,
		Earnings:   []payroll.LineItem{{Name: "HRA", Amount: decimal.RequireFromString("1200.25")}},
	})
	require.NoError(t, err)
	require.Len(t, saved.Earnings, 1)
	assert.Equal(t, "1200.25", saved.Earnings[0].Amount.String())
	assert.Empty(t, saved.Deductions)
}

func TestAttendanceRepository_MarkPresentKeepsLeave(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	emp := createEmployee(t, postgresql.NewEmployeeRepository(db), "EMP-001", "Alice")
	repo := postgresql.NewAttendanceRepository(db)

	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	_, err := repo.Upsert(ctx, attendance.Record{EmployeeID: emp.ID, Date: day, Status: attendance.StatusLeave, Source: attendance.SourceManual})
	require.NoError(t, err)

	marked, err := repo.MarkPresent(ctx, emp.ID, day, attendance.SourcePunch)
	require.NoError(t, err)
	assert.False(t, marked)

	marked, err = repo.MarkPresent(ctx, emp.ID, day.AddDate(0, 0, 1), attendance.SourcePunch)
	require.NoError(t, err)
	assert.True(t, marked)

	inserted, err := repo.InsertPunchLog(ctx, attendance.PunchLog{EmployeeID: emp.ID, Direction: attendance.DirectionIn, PunchedAt: day.Add(9 * time.Hour), Source: "api"})
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = repo.InsertPunchLog(ctx, attendance.PunchLog{EmployeeID: emp.ID, Direction: attendance.DirectionIn, PunchedAt: day.Add(9 * time.Hour), Source: "api"})
	require.NoError(t, err)
	assert.False(t, inserted)

	records, err := repo.ListByRange(ctx, emp.ID, day, day.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, attendance.StatusLeave, records[0].Status)
	assert.Equal(t, attendance.StatusPresent, records[1].Status)
}

func TestIncrementRepository_RollsBackWithTransaction(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	empRepo := postgresql.NewEmployeeRepository(db)
	incRepo := postgresql.NewIncrementRepository(db)
	emp := createEmployee(t, empRepo, "EMP-001", "Alice")

	boom := errors.New("boom")
	err := postgresql.NewTransactor(db).WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := incRepo.Create(ctx, increment.Entry{
			EmployeeID:          emp.ID,
			OldSalary:           emp.MonthlySalary,
			NewSalary:           decimal.NewFromInt(55000),
			IncrementAmount:     decimal.NewFromInt(5000),
			IncrementPercentage: decimal.NewFromInt(10),
			EffectiveDate:       time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
		require.NoError(t, empRepo.UpdateSalary(ctx, emp.ID, decimal.NewFromInt(55000)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	entries, err := incRepo.ListByEmployee(ctx, emp.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	got, err := empRepo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.True(t, got.MonthlySalary.Equal(decimal.NewFromInt(50000)))
}

func TestIncrementRepository_ListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	emp := createEmployee(t, postgresql.NewEmployeeRepository(db), "EMP-001", "Alice")
	repo := postgresql.NewIncrementRepository(db)

	for _, month := range []time.Month{time.March, time.September, time.June} {
		_, err := repo.Create(ctx, increment.Entry{
			EmployeeID:          emp.ID,
			OldSalary:           decimal.NewFromInt(50000),
			NewSalary:           decimal.NewFromInt(51000),
			IncrementAmount:     decimal.NewFromInt(1000),
			IncrementPercentage: decimal.NewFromInt(2),
			EffectiveDate:       time.Date(2024, month, 1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	entries, err := repo.ListByEmployee(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, time.September, entries[0].EffectiveDate.Month())
	assert.Equal(t, time.June, entries[1].EffectiveDate.Month())
	assert.Equal(t, time.March, entries[2].EffectiveDate.Month())
}

func TestPayslipRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	empRepo := postgresql.NewEmployeeRepository(db)
	emp := createEmployee(t, empRepo, "EMP-001", "Alice")
	repo := postgresql.NewPayslipRepository(db)

	p := payslip.Payslip{
		ID:              uuid.NewString(),
		EmployeeID:      emp.ID,
		EmployeeCode:    emp.EmployeeCode,
		EmployeeName:    emp.FullName,
		PeriodStart:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:       time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		IssueDate:       time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		Earnings:        []payroll.LineItem{{Name: payroll.BasicSalary, Amount: decimal.NewFromInt(50000)}},
		Deductions:      []payroll.LineItem{{Name: "Tax", Amount: decimal.NewFromInt(2000)}},
		GrossPay:        decimal.NewFromInt(50000),
		TotalDeductions: decimal.NewFromInt(2000),
		NetPay:          decimal.NewFromInt(48000),
		NetPayWords:     "Forty Eight Thousand Only",
		Currency:        "INR",
		PaymentMethod:   employee.PaymentBankTransfer,
		PDFPath:         "payslips/2024-06/EMP-001.pdf",
	}
	p.AttendanceSummary = &attendance.Summary{Present: 20, Absent: 1, Leave: 1, Total: 22}
	created, err := repo.Create(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "48000", created.NetPay.String())
	require.NotNil(t, created.AttendanceSummary)
	assert.Equal(t, 20, created.AttendanceSummary.Present)

	dup := p
	dup.ID = uuid.NewString()
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, payslip.ErrPayslipAlreadyExists)

	sentAt := time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.MarkEmailSent(ctx, p.ID, sentAt))
	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.EmailSentAt)
	assert.True(t, got.EmailSentAt.Equal(sentAt))

	paths, err := repo.PDFPaths(ctx)
	require.NoError(t, err)
	assert.Contains(t, paths, p.PDFPath)

	assert.ErrorIs(t, empRepo.Delete(ctx, emp.ID), employee.ErrEmployeeHasPayslips)

	require.NoError(t, repo.Delete(ctx, p.ID))
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), payslip.ErrPayslipNotFound)
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := postgresql.NewUserRepository(db)

	_, err := repo.Create(ctx, user.User{Email: "admin@example.com", PasswordHash: "hash", IsAdmin: true})
	require.NoError(t, err)
	_, err = repo.Create(ctx, user.User{Email: "admin@example.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, user.ErrUserEmailExists)

	got, err := repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
