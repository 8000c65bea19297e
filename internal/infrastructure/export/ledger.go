// Package export renders reports as spreadsheet files.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"optiretail/internal/core/types"
	"optiretail/internal/domain/reports"
)

// ContentTypeXLSX is the media type of the files written here.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	sheetTransactions = "Transactions"
	sheetSummary      = "Summary"

	// built-in excelize number format "#,##0.00"
	numFmtMoney = 4
)

var transactionHeaders = []any{
	"Date/Time", "Type", "Subtype", "Amount", "Reference", "Customer",
	"Payment Method", "Main Category", "Sub Category", "Channel No", "Indicator",
}

// LedgerMeta describes the report a ledger export belongs to.
type LedgerMeta struct {
	BranchID   int64
	BranchName string
	From       time.Time
	To         time.Time
	Location   *time.Location
}

// LedgerFileName returns the attachment name of a branch ledger export.
func LedgerFileName(meta LedgerMeta) string {
	loc := location(meta)
	return fmt.Sprintf("branch-%d-ledger-%s-%s.xlsx", meta.BranchID,
		meta.From.In(loc).Format("20060102"), meta.To.In(loc).Format("20060102"))
}

// WriteLedger writes the merged records and the summary as an xlsx workbook.
func WriteLedger(w io.Writer, meta LedgerMeta, records []reports.TransactionRecord, summary reports.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetTransactions); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtMoney})
	if err != nil {
		return fmt.Errorf("create money style: %w", err)
	}

	if err := writeTransactions(f, meta, records, moneyStyle); err != nil {
		return err
	}
	if err := writeSummary(f, meta, summary, moneyStyle); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeTransactions(f *excelize.File, meta LedgerMeta, records []reports.TransactionRecord, moneyStyle int) error {
	if err := f.SetSheetRow(sheetTransactions, "A1", &transactionHeaders); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}

	loc := location(meta)
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			timeValue(r.DateTime, loc),
			string(r.TransactionType),
			deref(r.TransactionSubtype),
			r.Amount.InexactFloat64(),
			deref(r.ReferenceNumber),
			deref(r.CustomerName),
			deref(r.PaymentMethod),
			deref(r.MainCategoryName),
			deref(r.SubCategoryName),
			channelValue(r.ChannelNo),
			string(r.Indicator()),
		}
		if err := f.SetSheetRow(sheetTransactions, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColStyle(sheetTransactions, "D", moneyStyle); err != nil {
		return fmt.Errorf("style amount column: %w", err)
	}
	if err := f.SetColWidth(sheetTransactions, "A", "K", 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, meta LedgerMeta, s reports.Summary, moneyStyle int) error {
	loc := location(meta)
	rows := [][]any{
		{"Branch", branchLabel(meta)},
		{"From", meta.From.In(loc).Format(time.DateOnly)},
		{"To", meta.To.In(loc).Format(time.DateOnly)},
		{},
		{"Order payments", money(s.OrderPayments)},
		{"Channel payments", money(s.ChannelPayments)},
		{"Soldering payments", money(s.SolderingPayments)},
		{"Other income", money(s.OtherIncome)},
		{"Total received", money(s.TotalReceived)},
		{"Total expenses", money(s.TotalExpenses)},
		{"Total bank deposits", money(s.TotalBankDeposits)},
		{"Net total", money(s.NetTotal)},
		{"Transactions", s.TransactionCount},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}

	if err := f.SetCellStyle(sheetSummary, "B5", "B12", moneyStyle); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}
	return f.SetColWidth(sheetSummary, "A", "B", 22)
}

func location(meta LedgerMeta) *time.Location {
	if meta.Location == nil {
		return time.UTC
	}
	return meta.Location
}

func branchLabel(meta LedgerMeta) string {
	if meta.BranchName != "" {
		return fmt.Sprintf("%d %s", meta.BranchID, meta.BranchName)
	}
	return fmt.Sprintf("%d", meta.BranchID)
}

func money(m types.Money) float64 {
	return m.Round(types.MoneyScale).InexactFloat64()
}

func timeValue(t *time.Time, loc *time.Location) string {
	if t == nil {
		return ""
	}
	return t.In(loc).Format("2006-01-02 15:04:05")
}

func channelValue(n *int64) any {
	if n == nil {
		return ""
	}
	return *n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
