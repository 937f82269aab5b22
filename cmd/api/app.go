package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payslip"
	appHTTP "github.com/cmlabs-hris/payroll-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/payroll-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/payroll-backend-go/internal/service/attendance"
	auditService "github.com/cmlabs-hris/payroll-backend-go/internal/service/audit"
	authService "github.com/cmlabs-hris/payroll-backend-go/internal/service/auth"
	companyService "github.com/cmlabs-hris/payroll-backend-go/internal/service/company"
	employeeService "github.com/cmlabs-hris/payroll-backend-go/internal/service/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/service/file"
	incrementService "github.com/cmlabs-hris/payroll-backend-go/internal/service/increment"
	payrollService "github.com/cmlabs-hris/payroll-backend-go/internal/service/payroll"
	payslipService "github.com/cmlabs-hris/payroll-backend-go/internal/service/payslip"
)

// app holds the wired services shared by the serve and reconcile commands.
type app struct {
	cfg      *config.Config
	db       *database.DB
	jwt      jwt.Service
	auth     auth.AuthService
	payslips payslip.PayslipService
	handlers appHTTP.Handlers
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	accessExpiration, err := time.ParseDuration(cfg.JWT.AccessExpiration)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("invalid access token expiration: %w", err)
	}

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize local storage: %w", err)
	}

	mailer, err := email.NewMailer(cfg.SMTP)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	tx := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	defaultsRepo := postgresql.NewPayrollDefaultsRepository(db)
	incrementRepo := postgresql.NewIncrementRepository(db)
	payslipRepo := postgresql.NewPayslipRepository(db)
	profileRepo := postgresql.NewCompanyProfileRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, accessExpiration)
	auditSvc := auditService.NewAuditService(auditRepo, logger)
	fileService := file.NewFileService(fileStorage)
	companySvc := companyService.NewCompanyService(profileRepo, fileService)
	authSvc := authService.NewAuthService(userRepo, JWTService)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, auditSvc, cfg.Payroll.DefaultCurrency)
	defaultsSvc := payrollService.NewDefaultsService(defaultsRepo, employeeRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, auditSvc)
	incrementSvc := incrementService.NewIncrementService(tx, employeeRepo, incrementRepo, auditSvc)
	payslipSvc := payslipService.NewPayslipService(
		tx,
		employeeRepo,
		payslipRepo,
		attendanceRepo,
		defaultsSvc,
		fileStorage,
		mailer,
		companySvc,
		auditSvc,
		payslipService.Options{
			AllowNegativeNet: cfg.Payroll.AllowNegativeNet,
			DefaultCurrency:  cfg.Payroll.DefaultCurrency,
			OrphanGrace:      cfg.Payroll.OrphanGrace,
		},
	)

	return &app{
		cfg:      cfg,
		db:       db,
		jwt:      JWTService,
		auth:     authSvc,
		payslips: payslipSvc,
		handlers: appHTTP.Handlers{
			Auth:       appHTTP.NewAuthHandler(authSvc),
			Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
			Payroll:    appHTTP.NewPayrollHandler(defaultsSvc),
			Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
			Increment:  appHTTP.NewIncrementHandler(incrementSvc),
			Payslip:    appHTTP.NewPayslipHandler(payslipSvc),
			Company:    appHTTP.NewCompanyHandler(companySvc),
			Audit:      appHTTP.NewAuditHandler(auditSvc),
		},
	}, nil
}

func (a *app) Close() {
	a.db.Close()
}
