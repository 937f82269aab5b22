package spreadsheet

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const registerSheet = "Payroll Register"

// RegisterRow is one payslip line in the payroll register workbook.
type RegisterRow struct {
	PayslipID     string
	EmployeeCode  string
	EmployeeName  string
	PeriodStart   time.Time
	PeriodEnd     time.Time
	IssueDate     time.Time
	Currency      string
	GrossPay      decimal.Decimal
	Deductions    decimal.Decimal
	NetPay        decimal.Decimal
	PaymentMethod string
	EmailSentAt   *time.Time
	Document      string
}

var registerHeader = []interface{}{
	"Payslip ID", "Employee Code", "Employee Name", "Period Start", "Period End", "Issue Date",
	"Currency", "Gross Pay", "Total Deductions", "Net Pay", "Payment Method", "Email Sent At", "Document",
}

// WriteRegister writes an xlsx workbook listing rows, followed by a totals
// line per currency.
func WriteRegister(w io.Writer, rows []RegisterRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", registerSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(registerSheet, "A1", &registerHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E6EF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	if err := f.SetCellStyle(registerSheet, "A1", "M1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	type totals struct{ gross, deductions, net decimal.Decimal }
	byCurrency := map[string]*totals{}
	var currencies []string

	for i, r := range rows {
		sent := ""
		if r.EmailSentAt != nil {
			sent = r.EmailSentAt.UTC().Format(time.RFC3339)
		}
		values := []interface{}{
			r.PayslipID,
			r.EmployeeCode,
			r.EmployeeName,
			r.PeriodStart.Format("2006-01-02"),
			r.PeriodEnd.Format("2006-01-02"),
			r.IssueDate.Format("2006-01-02"),
			r.Currency,
			r.GrossPay.InexactFloat64(),
			r.Deductions.InexactFloat64(),
			r.NetPay.InexactFloat64(),
			r.PaymentMethod,
			sent,
			r.Document,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(registerSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}

		t, ok := byCurrency[r.Currency]
		if !ok {
			t = &totals{}
			byCurrency[r.Currency] = t
			currencies = append(currencies, r.Currency)
		}
		t.gross = t.gross.Add(r.GrossPay)
		t.deductions = t.deductions.Add(r.Deductions)
		t.net = t.net.Add(r.NetPay)
	}

	next := len(rows) + 3
	for _, c := range currencies {
		t := byCurrency[c]
		values := []interface{}{"Total", "", "", "", "", "", c, t.gross.InexactFloat64(), t.deductions.InexactFloat64(), t.net.InexactFloat64()}
		cell, _ := excelize.CoordinatesToCellName(1, next)
		if err := f.SetSheetRow(registerSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write totals: %w", err)
		}
		if err := f.SetCellStyle(registerSheet, cell, fmt.Sprintf("M%d", next), headerStyle); err != nil {
			return fmt.Errorf("failed to style totals: %w", err)
		}
		next++
	}

	if last := next - 1; last >= 2 {
		if err := f.SetCellStyle(registerSheet, "H2", fmt.Sprintf("J%d", last), amountStyle); err != nil {
			return fmt.Errorf("failed to style amounts: %w", err)
		}
	}
	if err := f.SetColWidth(registerSheet, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(registerSheet, "B", "M", 18); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
