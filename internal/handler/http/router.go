package http

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/cmlabs-hris/payroll-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth       AuthHandler
	Employee   EmployeeHandler
	Payroll    PayrollHandler
	Attendance AttendanceHandler
	Increment  IncrementHandler
	Payslip    PayslipHandler
	Company    CompanyHandler
	Audit      AuditHandler
}

type RouterOptions struct {
	Logger      *slog.Logger
	LogLevel    slog.Level
	CORSOrigins []string
	// StoragePath is the local storage root. Only its logos directory is
	// served publicly; payslip documents go through the authenticated API.
	StoragePath string
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if opts.StoragePath != "" {
		logos := http.FileServer(http.Dir(filepath.Join(opts.StoragePath, "logos")))
		r.Handle("/files/logos/*", http.StripPrefix("/files/logos/", logos))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Auth.Login)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))
			r.Use(middleware.Actor)

			r.Post("/auth/logout", h.Auth.Logout)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.ListEmployees)
				r.With(middleware.AdminOnly).Post("/", h.Employee.CreateEmployee)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", h.Employee.GetEmployee)
					r.Get("/payroll-defaults", h.Payroll.GetDefaults)
					r.Get("/attendance", h.Attendance.ListAttendance)
					r.Get("/attendance/summary", h.Attendance.GetSummary)
					r.Get("/increments", h.Increment.ListIncrements)

					// Admin only
					r.Group(func(r chi.Router) {
						r.Use(middleware.AdminOnly)
						r.Put("/", h.Employee.UpdateEmployee)
						r.Delete("/", h.Employee.DeleteEmployee)
						r.Put("/payroll-defaults", h.Payroll.UpdateDefaults)
						r.Put("/attendance/{date}", h.Attendance.UpsertAttendance)
						r.Post("/increments", h.Increment.CreateIncrement)
					})
				})
			})

			r.Route("/attendance/punch-logs", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Post("/", h.Attendance.IngestPunchLogs)
				r.Post("/import", h.Attendance.ImportPunchLogs)
			})

			r.Route("/payslips", func(r chi.Router) {
				r.Get("/", h.Payslip.ListPayslips)
				r.Get("/{id}", h.Payslip.GetPayslip)
				r.Get("/{id}/pdf", h.Payslip.DownloadPayslip)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", h.Payslip.GeneratePayslip)
					r.Post("/bulk", h.Payslip.BulkGenerate)
					r.Post("/bulk-send", h.Payslip.BulkSend)
					r.Post("/export", h.Payslip.Export)
					r.Delete("/{id}", h.Payslip.DeletePayslip)
					r.Post("/{id}/send", h.Payslip.SendPayslip)
				})
			})

			r.Route("/company-profile", func(r chi.Router) {
				r.Get("/", h.Company.GetProfile)

				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Put("/", h.Company.UpdateProfile)
					r.Post("/logo", h.Company.UploadLogo)
				})
			})

			r.With(middleware.AdminOnly).Get("/audit-logs", h.Audit.ListEntries)
		})
	})
	return r
}
