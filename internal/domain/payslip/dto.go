package payslip

import (
	"io"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Period is a validated pay period.
type Period struct {
	Start time.Time
	End   time.Time
	Issue time.Time
}

func parsePeriod(start, end, issue string, now time.Time) (Period, validator.ValidationErrors) {
	var errs validator.ValidationErrors
	var p Period
	var ok bool

	if p.Start, ok = validator.IsValidDate(start); !ok {
		errs = append(errs, validator.ValidationError{Field: "pay_period_start", Message: "pay_period_start must be in YYYY-MM-DD format"})
	}
	endOK := true
	if p.End, endOK = validator.IsValidDate(end); !endOK {
		errs = append(errs, validator.ValidationError{Field: "pay_period_end", Message: "pay_period_end must be in YYYY-MM-DD format"})
	}
	if ok && endOK && p.End.Before(p.Start) {
		errs = append(errs, validator.ValidationError{Field: "pay_period_end", Message: "pay_period_end must not be before pay_period_start"})
	}

	if issue == "" {
		p.Issue = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else if p.Issue, ok = validator.IsValidDate(issue); !ok {
		errs = append(errs, validator.ValidationError{Field: "issue_date", Message: "issue_date must be in YYYY-MM-DD format"})
	}

	return p, errs
}

type GeneratePayslipRequest struct {
	EmployeeID      string                  `json:"employee_id"`
	PeriodStart     string                  `json:"pay_period_start"`
	PeriodEnd       string                  `json:"pay_period_end"`
	IssueDate       string                  `json:"issue_date,omitempty"`
	Earnings        []payroll.LineItemInput `json:"earnings,omitempty"`
	Deductions      []payroll.LineItemInput `json:"deductions,omitempty"`
	PaymentMethod   *string                 `json:"payment_method,omitempty"`
	Currency        *string                 `json:"currency,omitempty"`
	Notes           *string                 `json:"notes,omitempty"`
	SendEmail       bool                    `json:"send_email"`
	ReplaceExisting bool                    `json:"replace_existing"`

	period     Period
	earnings   []payroll.LineItem
	deductions []payroll.LineItem
}

func (r *GeneratePayslipRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		return validator.Tag(validator.ValidationErrors{{Field: "employee_id", Message: ErrMissingEmployee.Error()}}, ErrMissingEmployee)
	}
	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}

	period, periodErrs := parsePeriod(r.PeriodStart, r.PeriodEnd, r.IssueDate, time.Now())
	errs = append(errs, periodErrs...)

	if r.PaymentMethod != nil && !validator.IsInSlice(*r.PaymentMethod, employee.PaymentMethods) {
		errs = append(errs, validator.ValidationError{Field: "payment_method", Message: "payment_method must be one of Bank Transfer, Cash, Cheque"})
	}
	if r.Currency != nil && len(*r.Currency) != 3 {
		errs = append(errs, validator.ValidationError{Field: "currency", Message: "currency must be a 3-letter ISO code"})
	}

	earnings, earnErrs := payroll.ParseLineItems("earnings", r.Earnings)
	deductions, dedErrs := payroll.ParseLineItems("deductions", r.Deductions)
	errs = append(errs, earnErrs...)
	errs = append(errs, dedErrs...)

	if len(errs) > 0 {
		if len(earnErrs) > 0 || len(dedErrs) > 0 {
			return validator.Tag(errs, ErrInvalidLineItem)
		}
		return errs
	}

	r.period = period
	r.earnings = earnings
	r.deductions = deductions
	return nil
}

// UsesDefaults reports whether the caller omitted the grid entirely, in which
// case the employee's payroll defaults apply.
func (r *GeneratePayslipRequest) UsesDefaults() bool {
	return r.Earnings == nil && r.Deductions == nil
}

func (r *GeneratePayslipRequest) Period() Period { return r.period }

func (r *GeneratePayslipRequest) Items() (earnings, deductions []payroll.LineItem) {
	return r.earnings, r.deductions
}

type BulkGenerateRequest struct {
	EmployeeIDs     []string `json:"employee_ids,omitempty"`
	PeriodStart     string   `json:"pay_period_start"`
	PeriodEnd       string   `json:"pay_period_end"`
	IssueDate       string   `json:"issue_date,omitempty"`
	SendEmail       bool     `json:"send_email"`
	ReplaceExisting bool     `json:"replace_existing"`

	period Period
}

func (r *BulkGenerateRequest) Validate() error {
	var errs validator.ValidationErrors

	for i, id := range r.EmployeeIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: "employee_ids[" + validator.Itoa(i) + "]", Message: "must be a valid UUID"})
		}
	}
	period, periodErrs := parsePeriod(r.PeriodStart, r.PeriodEnd, r.IssueDate, time.Now())
	errs = append(errs, periodErrs...)

	if len(errs) > 0 {
		return errs
	}
	r.period = period
	return nil
}

func (r *BulkGenerateRequest) Period() Period { return r.period }

// IDsRequest selects payslips for bulk send and export.
type IDsRequest struct {
	PayslipIDs []string `json:"payslip_ids"`
}

// Validate checks the selection and drops repeated IDs, keeping the first
// occurrence of each.
func (r *IDsRequest) Validate() error {
	var errs validator.ValidationErrors

	seen := make(map[string]struct{}, len(r.PayslipIDs))
	unique := r.PayslipIDs[:0:0]
	for _, id := range r.PayslipIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	r.PayslipIDs = unique

	if len(r.PayslipIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "payslip_ids", Message: ErrEmptyBatch.Error()})
	}
	if len(r.PayslipIDs) > 500 {
		errs = append(errs, validator.ValidationError{Field: "payslip_ids", Message: "at most 500 payslips per request"})
	}
	for i, id := range r.PayslipIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{Field: "payslip_ids[" + validator.Itoa(i) + "]", Message: "must be a valid UUID"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayslipFilter struct {
	EmployeeID *string
	From       *string
	To         *string
	Page       int
	Limit      int
	SortBy     string
	SortOrder  string
}

func (f *PayslipFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	if f.From != nil {
		if _, ok := validator.IsValidDate(*f.From); !ok {
			errs = append(errs, validator.ValidationError{Field: "from", Message: "from must be in YYYY-MM-DD format"})
		}
	}
	if f.To != nil {
		if _, ok := validator.IsValidDate(*f.To); !ok {
			errs = append(errs, validator.ValidationError{Field: "to", Message: "to must be in YYYY-MM-DD format"})
		}
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 100"})
	}
	if f.SortBy == "" {
		f.SortBy = "issue_date"
	}
	if !validator.IsInSlice(f.SortBy, []string{"issue_date", "period_start", "employee_name", "net_pay", "created_at"}) {
		errs = append(errs, validator.ValidationError{Field: "sort_by", Message: "sort_by is not supported"})
	}
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		errs = append(errs, validator.ValidationError{Field: "sort_order", Message: "sort_order must be asc or desc"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayslipResponse struct {
	ID                string              `json:"id"`
	EmployeeID        string              `json:"employee_id"`
	EmployeeCode      string              `json:"employee_code"`
	EmployeeName      string              `json:"employee_name"`
	Designation       *string             `json:"designation,omitempty"`
	PeriodStart       string              `json:"pay_period_start"`
	PeriodEnd         string              `json:"pay_period_end"`
	IssueDate         string              `json:"issue_date"`
	Earnings          []payroll.LineItem  `json:"earnings"`
	Deductions        []payroll.LineItem  `json:"deductions"`
	GrossPay          decimal.Decimal     `json:"gross_pay"`
	TotalDeductions   decimal.Decimal     `json:"total_deductions"`
	NetPay            decimal.Decimal     `json:"net_pay"`
	NetPayWords       string              `json:"net_pay_words"`
	Currency          string              `json:"currency"`
	PaymentMethod     string              `json:"payment_method"`
	Notes             *string             `json:"notes,omitempty"`
	AttendanceSummary *attendance.Summary `json:"attendance_summary,omitempty"`
	FilePath          string              `json:"file_path"`
	URL               string              `json:"url,omitempty"`
	EmailSentAt       *time.Time          `json:"email_sent_at,omitempty"`
	DeliveryError     *string             `json:"delivery_error,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

func ToResponse(p Payslip, url string) PayslipResponse {
	return PayslipResponse{
		ID:                p.ID,
		EmployeeID:        p.EmployeeID,
		EmployeeCode:      p.EmployeeCode,
		EmployeeName:      p.EmployeeName,
		Designation:       p.Designation,
		PeriodStart:       p.PeriodStart.Format(dateLayout),
		PeriodEnd:         p.PeriodEnd.Format(dateLayout),
		IssueDate:         p.IssueDate.Format(dateLayout),
		Earnings:          p.Earnings,
		Deductions:        p.Deductions,
		GrossPay:          p.GrossPay,
		TotalDeductions:   p.TotalDeductions,
		NetPay:            p.NetPay,
		NetPayWords:       p.NetPayWords,
		Currency:          p.Currency,
		PaymentMethod:     p.PaymentMethod,
		Notes:             p.Notes,
		AttendanceSummary: p.AttendanceSummary,
		FilePath:          p.PDFPath,
		URL:               url,
		EmailSentAt:       p.EmailSentAt,
		CreatedAt:         p.CreatedAt,
	}
}

type ListPayslipResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
	Payslips   []PayslipResponse `json:"payslips"`
}

type BulkItemResult struct {
	EmployeeID   string     `json:"employee_id,omitempty"`
	EmployeeName string     `json:"employee_name,omitempty"`
	PayslipID    string     `json:"payslip_id,omitempty"`
	Status       ItemStatus `json:"status"`
	Error        string     `json:"error,omitempty"`
}

type BulkResult struct {
	Total     int              `json:"total"`
	Succeeded int              `json:"succeeded"`
	Partial   int              `json:"partial"`
	Failed    int              `json:"failed"`
	Items     []BulkItemResult `json:"items"`
}

// Add appends an item and updates the counters.
func (b *BulkResult) Add(item BulkItemResult) {
	b.Items = append(b.Items, item)
	b.Total++
	switch item.Status {
	case StatusSuccess:
		b.Succeeded++
	case StatusPartial:
		b.Partial++
	default:
		b.Failed++
	}
}

// Document is an opened payslip PDF.
type Document struct {
	Filename string
	Content  io.ReadCloser
}
