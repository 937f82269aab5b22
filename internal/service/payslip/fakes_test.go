package payslip

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/pdf"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeEmployees struct {
	byID map[string]employee.Employee
}

func newFakeEmployees(emps ...employee.Employee) *fakeEmployees {
	f := &fakeEmployees{byID: map[string]employee.Employee{}}
	for _, e := range emps {
		f.byID[e.ID] = e
	}
	return f
}

func (f *fakeEmployees) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	f.byID[e.ID] = e
	return e, nil
}

func (f *fakeEmployees) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e, ok := f.byID[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (f *fakeEmployees) GetByIDForUpdate(ctx context.Context, id string) (employee.Employee, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeEmployees) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	for _, e := range f.byID {
		if e.EmployeeCode == code {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployees) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	list, _ := f.ListForPayroll(ctx, nil)
	return list, int64(len(list)), nil
}

func (f *fakeEmployees) ListForPayroll(ctx context.Context, ids []string) ([]employee.Employee, error) {
	var out []employee.Employee
	if len(ids) == 0 {
		for _, e := range f.byID {
			if e.Status == employee.StatusActive {
				out = append(out, e)
			}
		}
	} else {
		for _, id := range ids {
			if e, ok := f.byID[id]; ok {
				out = append(out, e)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (f *fakeEmployees) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	f.byID[e.ID] = e
	return e, nil
}

func (f *fakeEmployees) UpdateSalary(ctx context.Context, id string, salary decimal.Decimal) error {
	e, ok := f.byID[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.MonthlySalary = salary
	f.byID[id] = e
	return nil
}

func (f *fakeEmployees) Delete(ctx context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

type fakePayslips struct {
	mu        sync.Mutex
	byID      map[string]payslip.Payslip
	createErr error
}

func newFakePayslips() *fakePayslips {
	return &fakePayslips{byID: map[string]payslip.Payslip{}}
}

func (f *fakePayslips) Create(ctx context.Context, p payslip.Payslip) (payslip.Payslip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return payslip.Payslip{}, f.createErr
	}
	for _, existing := range f.byID {
		if existing.EmployeeID == p.EmployeeID && existing.PeriodStart.Equal(p.PeriodStart) && existing.PeriodEnd.Equal(p.PeriodEnd) {
			return payslip.Payslip{}, payslip.ErrPayslipAlreadyExists
		}
	}
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakePayslips) GetByID(ctx context.Context, id string) (payslip.Payslip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return payslip.Payslip{}, payslip.ErrPayslipNotFound
	}
	return p, nil
}

func (f *fakePayslips) GetByEmployeePeriod(ctx context.Context, employeeID string, start, end time.Time) (payslip.Payslip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byID {
		if p.EmployeeID == employeeID && p.PeriodStart.Equal(start) && p.PeriodEnd.Equal(end) {
			return p, nil
		}
	}
	return payslip.Payslip{}, payslip.ErrPayslipNotFound
}

func (f *fakePayslips) List(ctx context.Context, filter payslip.PayslipFilter) ([]payslip.Payslip, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payslip.Payslip
	for _, p := range f.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeName < out[j].EmployeeName })
	return out, int64(len(out)), nil
}

func (f *fakePayslips) ListByIDs(ctx context.Context, ids []string) ([]payslip.Payslip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payslip.Payslip
	for _, id := range ids {
		if p, ok := f.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePayslips) MarkEmailSent(ctx context.Context, id string, sentAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byID[id]
	if !ok {
		return payslip.ErrPayslipNotFound
	}
	p.EmailSentAt = &sentAt
	f.byID[id] = p
	return nil
}

func (f *fakePayslips) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return payslip.ErrPayslipNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakePayslips) PDFPaths(ctx context.Context) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	paths := map[string]struct{}{}
	for _, p := range f.byID {
		paths[p.PDFPath] = struct{}{}
	}
	return paths, nil
}

type fakeAttendance struct {
	records []attendance.Record
	err     error
}

func (f *fakeAttendance) Upsert(ctx context.Context, r attendance.Record) (attendance.Record, error) {
	return r, nil
}

func (f *fakeAttendance) MarkPresent(ctx context.Context, employeeID string, date time.Time, source string) (bool, error) {
	return true, nil
}

func (f *fakeAttendance) ListByRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Record, error) {
	return f.records, f.err
}

func (f *fakeAttendance) InsertPunchLog(ctx context.Context, log attendance.PunchLog) (bool, error) {
	return true, nil
}

// fakeDefaults resolves every employee to Basic Salary plus the stored extras.
type fakeDefaults struct {
	extraEarnings []payroll.LineItem
	deductions    []payroll.LineItem
}

func (f *fakeDefaults) GetDefaults(ctx context.Context, employeeID string) (payroll.DefaultsResponse, error) {
	return payroll.DefaultsResponse{}, errors.New("not used")
}

func (f *fakeDefaults) UpdateDefaults(ctx context.Context, req payroll.UpdateDefaultsRequest) (payroll.DefaultsResponse, error) {
	return payroll.DefaultsResponse{}, errors.New("not used")
}

func (f *fakeDefaults) Resolve(ctx context.Context, emp employee.Employee) (payroll.Defaults, error) {
	d := payroll.Defaults{EmployeeID: emp.ID, Earnings: f.extraEarnings, Deductions: f.deductions}
	return d.WithBasicSalary(emp.MonthlySalary), nil
}

type staticBranding struct{}

func (staticBranding) Branding(ctx context.Context) (pdf.CompanyProfile, error) {
	return pdf.CompanyProfile{Name: "Acme Payroll", Subtitle: "Payslip", FooterText: "Computer generated"}, nil
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendPayslip(ctx context.Context, mail email.PayslipMail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

type auditCall struct {
	Action   string
	EntityID string
	Err      error
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []auditCall
}

func (f *fakeRecorder) Record(ctx context.Context, action, entityType, entityID string, err error, detail string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, auditCall{Action: action, EntityID: entityID, Err: err})
}

func (f *fakeRecorder) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.calls {
		out = append(out, c.Action)
	}
	return out
}
