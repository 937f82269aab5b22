package http

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	loggedOut []string
}

func (f *fakeAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if req.Password != "secret" {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}
	return auth.LoginResponse{AccessToken: "token", TokenType: "Bearer", Email: req.Email, IsAdmin: true}, nil
}

func (f *fakeAuthService) Logout(ctx context.Context, accessToken string) error {
	f.loggedOut = append(f.loggedOut, accessToken)
	return nil
}

func (f *fakeAuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	return false, nil
}

// fakePayslipService implements the calls the router tests exercise.
type fakePayslipService struct {
	payslip.PayslipService
	actor     string
	generated payslip.GeneratePayslipRequest
}

func (f *fakePayslipService) GeneratePayslip(ctx context.Context, req payslip.GeneratePayslipRequest) (payslip.PayslipResponse, error) {
	f.actor = audit.ActorFromContext(ctx)
	f.generated = req
	return payslip.PayslipResponse{ID: "p-1", EmployeeID: req.EmployeeID}, nil
}

func (f *fakePayslipService) GetPayslip(ctx context.Context, id string) (payslip.PayslipResponse, error) {
	if id != "p-1" {
		return payslip.PayslipResponse{}, payslip.ErrPayslipNotFound
	}
	return payslip.PayslipResponse{ID: id}, nil
}

func (f *fakePayslipService) OpenDocument(ctx context.Context, id string) (payslip.Document, error) {
	return payslip.Document{
		Filename: "payslip_EMP001_2024-01-01.pdf",
		Content:  io.NopCloser(strings.NewReader("%PDF-1.3 fake")),
	}, nil
}

func (f *fakePayslipService) Export(ctx context.Context, req payslip.IDsRequest, w io.Writer) error {
	if len(req.PayslipIDs) == 0 {
		return payslip.ErrEmptyBatch
	}
	zw := zip.NewWriter(w)
	for _, id := range req.PayslipIDs {
		f, err := zw.Create(id + ".pdf")
		if err != nil {
			return err
		}
		if _, err := f.Write([]byte("%PDF")); err != nil {
			return err
		}
	}
	return zw.Close()
}

type fakeEmployeeService struct {
	employee.EmployeeService
	filter employee.EmployeeFilter
}

func (f *fakeEmployeeService) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	f.filter = filter
	return employee.ListEmployeeResponse{
		TotalCount: 21,
		Page:       2,
		Limit:      20,
		TotalPages: 2,
		Employees:  []employee.EmployeeResponse{{ID: "e-21", FullName: "Zoe"}},
	}, nil
}

type routerFixture struct {
	router   http.Handler
	jwt      jwt.Service
	auth     *fakeAuthService
	payslips *fakePayslipService
	staff    *fakeEmployeeService
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	f := &routerFixture{
		jwt:      jwt.NewJWTService("test-secret", time.Hour),
		auth:     &fakeAuthService{},
		payslips: &fakePayslipService{},
		staff:    &fakeEmployeeService{},
	}
	// Routes these tests never reach get handlers over nil services.
	f.router = NewRouter(f.jwt, Handlers{
		Auth:       NewAuthHandler(f.auth),
		Employee:   NewEmployeeHandler(f.staff),
		Payroll:    NewPayrollHandler(nil),
		Attendance: NewAttendanceHandler(nil),
		Increment:  NewIncrementHandler(nil),
		Payslip:    NewPayslipHandler(f.payslips),
		Company:    NewCompanyHandler(nil),
		Audit:      NewAuditHandler(nil),
	}, RouterOptions{CORSOrigins: []string{"http://localhost:3000"}})
	return f
}

func (f *routerFixture) token(t *testing.T, isAdmin bool) string {
	t.Helper()
	token, _, err := f.jwt.GenerateAccessToken("user-1", "hr@example.com", isAdmin)
	require.NoError(t, err)
	return token
}

func (f *routerFixture) do(method, path, token string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRouter_Login(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"hr@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"hr@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/auth/login", "", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_RequiresToken(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/payslips/p-1", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/payslips/p-1", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/payslips/p-1", f.token(t, false), "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/payslips/missing", f.token(t, false), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_LogoutRevokesToken(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, true)

	rec := f.do(http.MethodPost, "/api/v1/auth/logout", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{token}, f.auth.loggedOut)

	// The fake service does not revoke, so do it the way the real one does.
	f.jwt.RevokeToken(token, time.Now().Add(time.Hour).Unix())
	rec = f.do(http.MethodGet, "/api/v1/payslips/p-1", token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_GenerateRequiresAdmin(t *testing.T) {
	f := newRouterFixture(t)
	body := `{"employee_id":"e-1","pay_period_start":"2024-01-01","pay_period_end":"2024-01-31"}`

	rec := f.do(http.MethodPost, "/api/v1/payslips", f.token(t, false), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/payslips", f.token(t, true), body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "hr@example.com", f.payslips.actor)
	assert.Equal(t, "2024-01-31", f.payslips.generated.PeriodEnd)
	assert.True(t, decodeResponse(t, rec).Success)
}

func TestRouter_DownloadPayslip(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/payslips/p-1/pdf?download=1", f.token(t, false), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="payslip_EMP001_2024-01-01.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.3 fake", rec.Body.String())
}

func TestRouter_Export(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, true)

	t.Run("empty selection is a JSON error", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/api/v1/payslips/export", token, `{"payslip_ids":[]}`)
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "EMPTY_BATCH", decodeResponse(t, rec).Error.Code)
	})

	t.Run("streams an archive", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/api/v1/payslips/export", token, `{"payslip_ids":["a","b"]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/zip", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "payslips-")

		zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
		require.NoError(t, err)
		require.Len(t, zr.File, 2)
		assert.Equal(t, "a.pdf", zr.File[0].Name)
	})
}

func TestRouter_ListEmployees(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/employees?status=Active&page=2&limit=abc", f.token(t, false), "")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, f.staff.filter.Status)
	assert.Equal(t, "Active", *f.staff.filter.Status)
	assert.Nil(t, f.staff.filter.Search)
	assert.Equal(t, 2, f.staff.filter.Page)
	assert.Equal(t, 0, f.staff.filter.Limit)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(21), resp.Meta.TotalItems)
	assert.Equal(t, 2, resp.Meta.TotalPages)
}

func TestRouter_NonAdminMutationsForbidden(t *testing.T) {
	f := newRouterFixture(t)
	token := f.token(t, false)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/payslips"},
		{http.MethodPost, "/api/v1/payslips/bulk"},
		{http.MethodDelete, "/api/v1/payslips/p-1"},
		{http.MethodPut, "/api/v1/employees/e-1/payroll-defaults"},
		{http.MethodPost, "/api/v1/employees/e-1/increments"},
		{http.MethodPost, "/api/v1/attendance/punch-logs"},
		{http.MethodPut, "/api/v1/company-profile"},
		{http.MethodGet, "/api/v1/audit-logs"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := f.do(tc.method, tc.path, token, `{}`)
			assert.Equal(t, http.StatusForbidden, rec.Code)
		})
	}
	assert.Empty(t, f.payslips.generated.EmployeeID)
}
