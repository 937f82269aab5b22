package payslip

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/audit"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payslip"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/pdf"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

const (
	documentPrefix    = "payslips"
	registerFilename  = "payroll-register.xlsx"
	exportErrorsFile  = "export-errors.txt"
	pdfContentType    = "application/pdf"
	entityTypePayslip = "payslip"
)

// BrandingProvider supplies the company branding printed on each document.
type BrandingProvider interface {
	Branding(ctx context.Context) (pdf.CompanyProfile, error)
}

type Options struct {
	AllowNegativeNet bool
	DefaultCurrency  string
	// OrphanGrace is how old an unreferenced document must be before
	// reconciliation removes it.
	OrphanGrace time.Duration
}

type PayslipServiceImpl struct {
	tx             database.Transactor
	employeeRepo   employee.EmployeeRepository
	payslipRepo    payslip.PayslipRepository
	attendanceRepo attendance.AttendanceRepository
	defaults       payroll.DefaultsService
	storage        storage.FileStorage
	mailer         email.Mailer
	branding       BrandingProvider
	audit          audit.Recorder
	calc           Calculator
	orphanGrace    time.Duration
	now            func() time.Time
}

func NewPayslipService(
	tx database.Transactor,
	employeeRepo employee.EmployeeRepository,
	payslipRepo payslip.PayslipRepository,
	attendanceRepo attendance.AttendanceRepository,
	defaults payroll.DefaultsService,
	fileStorage storage.FileStorage,
	mailer email.Mailer,
	branding BrandingProvider,
	recorder audit.Recorder,
	opts Options,
) payslip.PayslipService {
	return &PayslipServiceImpl{
		tx:             tx,
		employeeRepo:   employeeRepo,
		payslipRepo:    payslipRepo,
		attendanceRepo: attendanceRepo,
		defaults:       defaults,
		storage:        fileStorage,
		mailer:         mailer,
		branding:       branding,
		audit:          recorder,
		calc:           Calculator{AllowNegativeNet: opts.AllowNegativeNet, DefaultCurrency: opts.DefaultCurrency},
		orphanGrace:    opts.OrphanGrace,
		now:            time.Now,
	}
}

type generateInput struct {
	period          payslip.Period
	earnings        []payroll.LineItem
	deductions      []payroll.LineItem
	useDefaults     bool
	currency        string
	paymentMethod   string
	notes           *string
	replaceExisting bool
}

// GeneratePayslip implements payslip.PayslipService.
func (s *PayslipServiceImpl) GeneratePayslip(ctx context.Context, req payslip.GeneratePayslipRequest) (payslip.PayslipResponse, error) {
	if err := req.Validate(); err != nil {
		return payslip.PayslipResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	earnings, deductions := req.Items()
	in := generateInput{
		period:          req.Period(),
		earnings:        earnings,
		deductions:      deductions,
		useDefaults:     req.UsesDefaults(),
		currency:        deref(req.Currency),
		paymentMethod:   deref(req.PaymentMethod),
		notes:           req.Notes,
		replaceExisting: req.ReplaceExisting,
	}

	p, err := s.generate(ctx, emp, in)
	s.audit.Record(ctx, audit.ActionPayslipGenerate, entityTypePayslip, p.ID, err, emp.EmployeeCode+" "+in.period.Start.Format("2006-01-02"))
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	resp := s.toResponse(ctx, p)
	if req.SendEmail {
		sent, err := s.send(ctx, p, emp)
		s.audit.Record(ctx, audit.ActionPayslipSend, entityTypePayslip, p.ID, err, emp.EmailAddress())
		if err != nil {
			msg := err.Error()
			resp.DeliveryError = &msg
		} else {
			resp.EmailSentAt = sent.EmailSentAt
		}
	}
	return resp, nil
}

// generate computes, renders, stores and records one payslip. The document is
// written first; if the record cannot be saved the document is removed again.
func (s *PayslipServiceImpl) generate(ctx context.Context, emp employee.Employee, in generateInput) (payslip.Payslip, error) {
	if in.useDefaults {
		d, err := s.defaults.Resolve(ctx, emp)
		if err != nil {
			return payslip.Payslip{}, fmt.Errorf("failed to load payroll defaults: %w", err)
		}
		in.earnings, in.deductions = d.Earnings, d.Deductions
	}

	records, err := s.attendanceRepo.ListByRange(ctx, emp.ID, in.period.Start, in.period.End)
	if err != nil {
		slog.Warn("Attendance summary unavailable", "employee_id", emp.ID, "error", err)
		records = nil
	} else if records == nil {
		records = []attendance.Record{}
	}

	p, err := s.calc.Compute(ComputeInput{
		Employee:      emp,
		PeriodStart:   in.period.Start,
		PeriodEnd:     in.period.End,
		IssueDate:     in.period.Issue,
		Earnings:      in.earnings,
		Deductions:    in.deductions,
		Currency:      in.currency,
		PaymentMethod: in.paymentMethod,
		Notes:         in.notes,
		Attendance:    records,
	})
	if err != nil {
		return payslip.Payslip{}, err
	}

	existing, err := s.payslipRepo.GetByEmployeePeriod(ctx, emp.ID, in.period.Start, in.period.End)
	switch {
	case err == nil && !in.replaceExisting:
		return payslip.Payslip{}, payslip.ErrPayslipAlreadyExists
	case err != nil && !errors.Is(err, payslip.ErrPayslipNotFound):
		return payslip.Payslip{}, err
	case err != nil:
		existing = payslip.Payslip{}
	}

	id, err := uuid.NewV7()
	if err != nil {
		return payslip.Payslip{}, fmt.Errorf("failed to generate payslip id: %w", err)
	}
	p.ID = id.String()
	actor := audit.ActorFromContext(ctx)
	p.CreatedBy = &actor
	p.CreatedAt = s.now()

	docPath := documentPath(p)
	branding, err := s.branding.Branding(ctx)
	if err != nil {
		return payslip.Payslip{}, fmt.Errorf("failed to load company branding: %w", err)
	}
	doc, err := pdf.Render(pdf.BuildLayout(p, emp, branding))
	if err != nil {
		return payslip.Payslip{}, &payslip.RenderIOError{Path: docPath, Err: err}
	}
	storedPath, err := s.storage.Upload(ctx, bytes.NewReader(doc), docPath, pdfContentType)
	if err != nil {
		return payslip.Payslip{}, &payslip.RenderIOError{Path: docPath, Err: err}
	}
	p.PDFPath = storedPath

	var created payslip.Payslip
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if existing.ID != "" {
			if err := s.payslipRepo.Delete(ctx, existing.ID); err != nil {
				return err
			}
		}
		var err error
		created, err = s.payslipRepo.Create(ctx, p)
		return err
	})
	if err != nil {
		if delErr := s.storage.Delete(context.WithoutCancel(ctx), storedPath); delErr != nil {
			slog.Error("Failed to remove payslip document after failed save", "path", storedPath, "error", delErr)
			return payslip.Payslip{}, &payslip.PersistenceError{PayslipID: p.ID, PDFPath: storedPath, Orphaned: true, Err: err}
		}
		if errors.Is(err, payslip.ErrPayslipAlreadyExists) {
			return payslip.Payslip{}, err
		}
		return payslip.Payslip{}, &payslip.PersistenceError{PayslipID: p.ID, PDFPath: storedPath, Err: err}
	}

	if existing.PDFPath != "" && existing.PDFPath != created.PDFPath {
		if err := s.storage.Delete(ctx, existing.PDFPath); err != nil {
			slog.Warn("Failed to remove replaced payslip document", "path", existing.PDFPath, "error", err)
		}
	}

	slog.Info("Payslip generated", "payslip_id", created.ID, "employee_id", emp.ID, "net_pay", created.NetPay.String())
	return created, nil
}

// documentPath is payslips/{yyyy-mm}/{employee_code}-{payslip_id}.pdf.
func documentPath(p payslip.Payslip) string {
	return path.Join(documentPrefix, p.PeriodStart.Format("2006-01"), p.EmployeeCode+"-"+p.ID+".pdf")
}

// send emails the stored document and stamps email_sent_at on success.
func (s *PayslipServiceImpl) send(ctx context.Context, p payslip.Payslip, emp employee.Employee) (payslip.Payslip, error) {
	to := emp.EmailAddress()
	if to == "" {
		return p, &payslip.EmailDeliveryError{PayslipID: p.ID, Err: email.ErrNoRecipient}
	}

	exists, err := s.storage.Exists(ctx, p.PDFPath)
	if err != nil {
		return p, fmt.Errorf("failed to check payslip document: %w", err)
	}
	if !exists {
		return p, payslip.ErrPDFNotFound
	}

	branding, err := s.branding.Branding(ctx)
	if err != nil {
		return p, fmt.Errorf("failed to load company branding: %w", err)
	}

	err = s.mailer.SendPayslip(ctx, email.PayslipMail{
		To:           to,
		EmployeeName: p.EmployeeName,
		CompanyName:  branding.Name,
		Period:       p.PeriodLabel(),
		NetPay:       p.Currency + " " + pdf.FormatAmount(p.NetPay),
		NetPayWords:  p.NetPayWords,
		Filename:     attachmentName(p),
		Open: func() (io.ReadCloser, error) {
			return s.storage.Download(ctx, p.PDFPath)
		},
	})
	if err != nil {
		return p, &payslip.EmailDeliveryError{PayslipID: p.ID, Recipient: to, Err: err}
	}

	sentAt := s.now()
	if err := s.payslipRepo.MarkEmailSent(ctx, p.ID, sentAt); err != nil {
		return p, fmt.Errorf("payslip %s was emailed but could not be marked as sent: %w", p.ID, err)
	}
	p.EmailSentAt = &sentAt

	slog.Info("Payslip emailed", "payslip_id", p.ID, "recipient", to)
	return p, nil
}

func attachmentName(p payslip.Payslip) string {
	return fmt.Sprintf("payslip-%s-%s.pdf", p.EmployeeCode, p.PeriodStart.Format("2006-01"))
}

func (s *PayslipServiceImpl) toResponse(ctx context.Context, p payslip.Payslip) payslip.PayslipResponse {
	url, err := s.storage.GetURL(ctx, p.PDFPath, 0)
	if err != nil {
		slog.Warn("Failed to build payslip document url", "payslip_id", p.ID, "error", err)
		url = ""
	}
	return payslip.ToResponse(p, url)
}

// GetPayslip implements payslip.PayslipService.
func (s *PayslipServiceImpl) GetPayslip(ctx context.Context, id string) (payslip.PayslipResponse, error) {
	p, err := s.payslipRepo.GetByID(ctx, id)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}
	return s.toResponse(ctx, p), nil
}

// ListPayslips implements payslip.PayslipService.
func (s *PayslipServiceImpl) ListPayslips(ctx context.Context, filter payslip.PayslipFilter) (payslip.ListPayslipResponse, error) {
	if err := filter.Validate(); err != nil {
		return payslip.ListPayslipResponse{}, err
	}

	payslips, total, err := s.payslipRepo.List(ctx, filter)
	if err != nil {
		return payslip.ListPayslipResponse{}, err
	}

	items := make([]payslip.PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		items = append(items, s.toResponse(ctx, p))
	}

	return payslip.ListPayslipResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
		Payslips:   items,
	}, nil
}

// OpenDocument implements payslip.PayslipService.
func (s *PayslipServiceImpl) OpenDocument(ctx context.Context, id string) (payslip.Document, error) {
	p, err := s.payslipRepo.GetByID(ctx, id)
	if err != nil {
		return payslip.Document{}, err
	}

	rc, err := s.storage.Download(ctx, p.PDFPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return payslip.Document{}, payslip.ErrPDFNotFound
		}
		return payslip.Document{}, fmt.Errorf("failed to open payslip document: %w", err)
	}
	return payslip.Document{Filename: attachmentName(p), Content: rc}, nil
}

// DeletePayslip implements payslip.PayslipService.
func (s *PayslipServiceImpl) DeletePayslip(ctx context.Context, id string) error {
	p, err := s.payslipRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.payslipRepo.Delete(ctx, id)
	s.audit.Record(ctx, audit.ActionPayslipDelete, entityTypePayslip, id, err, p.EmployeeCode+" "+p.PeriodLabel())
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, p.PDFPath); err != nil {
		// the orphaned file is picked up by reconciliation
		slog.Warn("Failed to remove deleted payslip document", "path", p.PDFPath, "error", err)
	}
	return nil
}

// SendPayslip implements payslip.PayslipService.
func (s *PayslipServiceImpl) SendPayslip(ctx context.Context, id string) (payslip.PayslipResponse, error) {
	p, err := s.payslipRepo.GetByID(ctx, id)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}
	emp, err := s.employeeRepo.GetByID(ctx, p.EmployeeID)
	if err != nil {
		return payslip.PayslipResponse{}, err
	}

	sent, err := s.send(ctx, p, emp)
	s.audit.Record(ctx, audit.ActionPayslipSend, entityTypePayslip, id, err, emp.EmailAddress())
	if err != nil {
		return payslip.PayslipResponse{}, err
	}
	return s.toResponse(ctx, sent), nil
}

// BulkGenerate implements payslip.PayslipService. Employees are processed one
// at a time in name order; a failure is recorded against its employee and the
// run continues.
func (s *PayslipServiceImpl) BulkGenerate(ctx context.Context, req payslip.BulkGenerateRequest) (payslip.BulkResult, error) {
	if err := req.Validate(); err != nil {
		return payslip.BulkResult{}, err
	}

	employees, err := s.employeeRepo.ListForPayroll(ctx, req.EmployeeIDs)
	if err != nil {
		return payslip.BulkResult{}, err
	}

	result := payslip.BulkResult{Items: []payslip.BulkItemResult{}}
	found := make(map[string]bool, len(employees))
	for _, emp := range employees {
		found[emp.ID] = true
	}
	for _, id := range req.EmployeeIDs {
		if !found[id] {
			result.Add(payslip.BulkItemResult{EmployeeID: id, Status: payslip.StatusFail, Error: employee.ErrEmployeeNotFound.Error()})
		}
	}
	if len(employees) == 0 && result.Total == 0 {
		return payslip.BulkResult{}, payslip.ErrEmptyBatch
	}

	in := generateInput{period: req.Period(), useDefaults: true, replaceExisting: req.ReplaceExisting}
	for _, emp := range employees {
		item := payslip.BulkItemResult{EmployeeID: emp.ID, EmployeeName: emp.FullName}

		if err := ctx.Err(); err != nil {
			item.Status, item.Error = payslip.StatusFail, "cancelled: "+err.Error()
			result.Add(item)
			continue
		}

		p, err := s.generate(ctx, emp, in)
		s.audit.Record(ctx, audit.ActionPayslipGenerate, entityTypePayslip, p.ID, err, "bulk "+emp.EmployeeCode)
		if err != nil {
			slog.Error("Bulk payslip generation failed", "employee_id", emp.ID, "error", err)
			item.Status, item.Error = payslip.StatusFail, err.Error()
			result.Add(item)
			continue
		}
		item.PayslipID = p.ID
		item.Status = payslip.StatusSuccess

		if req.SendEmail {
			_, err := s.send(ctx, p, emp)
			s.audit.Record(ctx, audit.ActionPayslipSend, entityTypePayslip, p.ID, err, emp.EmailAddress())
			if err != nil {
				slog.Error("Bulk payslip email failed", "payslip_id", p.ID, "error", err)
				item.Status, item.Error = payslip.StatusPartial, err.Error()
			}
		}
		result.Add(item)
	}

	return result, nil
}

// BulkSend implements payslip.PayslipService.
func (s *PayslipServiceImpl) BulkSend(ctx context.Context, req payslip.IDsRequest) (payslip.BulkResult, error) {
	if err := req.Validate(); err != nil {
		return payslip.BulkResult{}, err
	}

	byID, err := s.payslipsByID(ctx, req.PayslipIDs)
	if err != nil {
		return payslip.BulkResult{}, err
	}

	result := payslip.BulkResult{Items: []payslip.BulkItemResult{}}
	for _, id := range req.PayslipIDs {
		p, ok := byID[id]
		if !ok {
			result.Add(payslip.BulkItemResult{PayslipID: id, Status: payslip.StatusFail, Error: payslip.ErrPayslipNotFound.Error()})
			continue
		}
		item := payslip.BulkItemResult{EmployeeID: p.EmployeeID, EmployeeName: p.EmployeeName, PayslipID: id}

		if err := ctx.Err(); err != nil {
			item.Status, item.Error = payslip.StatusFail, "cancelled: "+err.Error()
			result.Add(item)
			continue
		}

		emp, err := s.employeeRepo.GetByID(ctx, p.EmployeeID)
		if err == nil {
			_, err = s.send(ctx, p, emp)
			s.audit.Record(ctx, audit.ActionPayslipSend, entityTypePayslip, id, err, emp.EmailAddress())
		}
		if err != nil {
			slog.Error("Bulk payslip email failed", "payslip_id", id, "error", err)
			item.Status, item.Error = payslip.StatusFail, err.Error()
		} else {
			item.Status = payslip.StatusSuccess
		}
		result.Add(item)
	}

	return result, nil
}

func (s *PayslipServiceImpl) payslipsByID(ctx context.Context, ids []string) (map[string]payslip.Payslip, error) {
	payslips, err := s.payslipRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]payslip.Payslip, len(payslips))
	for _, p := range payslips {
		byID[p.ID] = p
	}
	return byID, nil
}

// Export implements payslip.PayslipService.
func (s *PayslipServiceImpl) Export(ctx context.Context, req payslip.IDsRequest, w io.Writer) (err error) {
	if err := req.Validate(); err != nil {
		return err
	}
	byID, err := s.payslipsByID(ctx, req.PayslipIDs)
	if err != nil {
		return err
	}
	defer func() {
		s.audit.Record(ctx, audit.ActionPayslipExport, entityTypePayslip, "", err, fmt.Sprintf("%d payslips requested", len(req.PayslipIDs)))
	}()

	zw := zip.NewWriter(w)
	var (
		problems []string
		rows     []spreadsheet.RegisterRow
	)
	for _, id := range req.PayslipIDs {
		p, ok := byID[id]
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: %s", id, payslip.ErrPayslipNotFound))
			continue
		}
		name := path.Base(p.PDFPath)
		if err := s.copyDocument(ctx, zw, p, name); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				problems = append(problems, fmt.Sprintf("%s: %s", id, payslip.ErrPDFNotFound))
				continue
			}
			return fmt.Errorf("failed to export payslip %s: %w", id, err)
		}
		rows = append(rows, registerRow(p, name))
	}

	reg, err := zw.CreateHeader(&zip.FileHeader{Name: registerFilename, Method: zip.Deflate, Modified: s.now()})
	if err != nil {
		return fmt.Errorf("failed to add payroll register: %w", err)
	}
	if err := spreadsheet.WriteRegister(reg, rows); err != nil {
		return err
	}

	if len(problems) > 0 {
		ew, err := zw.CreateHeader(&zip.FileHeader{Name: exportErrorsFile, Method: zip.Deflate, Modified: s.now()})
		if err != nil {
			return fmt.Errorf("failed to add export errors: %w", err)
		}
		if _, err := io.WriteString(ew, strings.Join(problems, "\n")+"\n"); err != nil {
			return fmt.Errorf("failed to write export errors: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish export archive: %w", err)
	}
	return nil
}

func (s *PayslipServiceImpl) copyDocument(ctx context.Context, zw *zip.Writer, p payslip.Payslip, name string) error {
	rc, err := s.storage.Download(ctx, p.PDFPath)
	if err != nil {
		return err
	}
	defer rc.Close()

	fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: p.CreatedAt})
	if err != nil {
		return err
	}
	_, err = io.Copy(fw, rc)
	return err
}

func registerRow(p payslip.Payslip, document string) spreadsheet.RegisterRow {
	return spreadsheet.RegisterRow{
		PayslipID:     p.ID,
		EmployeeCode:  p.EmployeeCode,
		EmployeeName:  p.EmployeeName,
		PeriodStart:   p.PeriodStart,
		PeriodEnd:     p.PeriodEnd,
		IssueDate:     p.IssueDate,
		Currency:      p.Currency,
		GrossPay:      p.GrossPay,
		Deductions:    p.TotalDeductions,
		NetPay:        p.NetPay,
		PaymentMethod: p.PaymentMethod,
		EmailSentAt:   p.EmailSentAt,
		Document:      document,
	}
}

// ReconcileDocuments implements payslip.PayslipService.
func (s *PayslipServiceImpl) ReconcileDocuments(ctx context.Context) (removed int, err error) {
	defer func() {
		s.audit.Record(ctx, audit.ActionReconcile, entityTypePayslip, "", err, fmt.Sprintf("%d orphaned documents removed", removed))
	}()

	objects, err := s.storage.List(ctx, documentPrefix)
	if err != nil {
		return 0, err
	}
	referenced, err := s.payslipRepo.PDFPaths(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-s.orphanGrace)
	for _, obj := range objects {
		if _, ok := referenced[obj.Path]; ok {
			continue
		}
		// recent files may belong to a generation still in flight
		if obj.ModTime.After(cutoff) {
			continue
		}
		if err := s.storage.Delete(ctx, obj.Path); err != nil {
			return removed, fmt.Errorf("failed to remove orphaned document %s: %w", obj.Path, err)
		}
		// abandoned temp files from interrupted writes are not documents
		if storage.IsTemp(obj.Path) {
			slog.Info("Removed stale upload", "path", obj.Path)
			continue
		}
		slog.Info("Removed orphaned payslip document", "path", obj.Path)
		removed++
	}
	return removed, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
