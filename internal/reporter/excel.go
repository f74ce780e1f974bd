package reporter

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mariuscozma11/program-conta/internal/models"
	"github.com/mariuscozma11/program-conta/internal/normalize"
	"github.com/mariuscozma11/program-conta/internal/reconciler"
	"github.com/mariuscozma11/program-conta/pkg/errors"
)

const (
	summarySheet = "Summary"
	detailSheet  = "Detail"
)

// SaveInvoiceWorkbook writes a fixed-schema result as an XLSX workbook
// with a summary sheet and a detail sheet. The detail sheet lists one
// row per matched pair or one-sided record, bucket by bucket, and
// carries a running sum of the VAT base over the listed rows.
func SaveInvoiceWorkbook(path string, result *reconciler.InvoiceResult) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), summarySheet)
	writeInvoiceSummary(f, result.Summary)

	if _, err := f.NewSheet(detailSheet); err != nil {
		return errors.Wrap(err, errors.CategoryReport, errors.CodeWriteFailed, "adding detail sheet")
	}
	writeInvoiceDetail(f, result)

	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, errors.CategoryReport, errors.CodeWriteFailed, "saving workbook").
			WithContext("path", path)
	}
	return nil
}

func writeInvoiceSummary(f *excelize.File, s reconciler.InvoiceSummary) {
	rows := [][]interface{}{
		{"Left records", s.TotalLeft},
		{"Right records", s.TotalRight},
		{"Identical", s.Identical},
		{"Counterparty differences", s.CounterpartyDifferences},
		{"Value differences", s.ValueDifferences},
		{"Left only", s.LeftOnly},
		{"Right only", s.RightOnly},
		{"Matched by key", s.ExactKeyMatches},
		{"Matched by scoring", s.FallbackMatches},
		{"Matched base total", s.MatchedBase.StringFixed(2)},
		{"Left only base total", s.LeftOnlyBase.StringFixed(2)},
		{"Right only base total", s.RightOnlyBase.StringFixed(2)},
	}

	for i, row := range rows {
		setRow(f, summarySheet, i+1, row)
	}
}

func writeInvoiceDetail(f *excelize.File, result *reconciler.InvoiceResult) {
	setRow(f, detailSheet, 1, []interface{}{
		"Bucket", "Match",
		"Invoice (left)", "Invoice (right)",
		"Date (left)", "Date (right)",
		"Company (left)", "Company (right)",
		"Tax ID (left)", "Tax ID (right)",
		"VAT rate (left)", "VAT rate (right)",
		"VAT base (left)", "VAT base (right)",
		"Differences", "Running base",
	})

	row := 2
	running := decimal.Zero

	writePairs := func(bucket string, pairs []*reconciler.MatchedInvoice) {
		for _, p := range pairs {
			running = running.Add(normalize.Amount(p.Left.VATBase))
			setRow(f, detailSheet, row, []interface{}{
				bucket, p.Kind.String(),
				p.Left.InvoiceNumber, p.Right.InvoiceNumber,
				p.Left.IssueDate, p.Right.IssueDate,
				p.Left.CompanyName, p.Right.CompanyName,
				p.Left.TaxID, p.Right.TaxID,
				p.Left.VATRate, p.Right.VATRate,
				p.Left.VATBase, p.Right.VATBase,
				joinDifferences(p.Differences), running.StringFixed(2),
			})
			row++
		}
	}

	writePairs("identical", result.Identical)
	writePairs("counterparty", result.CounterpartyDifferences)
	writePairs("value", result.ValueDifferences)

	writeSingle := func(bucket string, inv *models.Invoice, left bool) {
		running = running.Add(normalize.Amount(inv.VATBase))
		cells := []interface{}{bucket, "",
			"", "", "", "", "", "", "", "", "", "", "", "",
			"", running.StringFixed(2),
		}
		offset := 0
		if !left {
			offset = 1
		}
		cells[2+offset] = inv.InvoiceNumber
		cells[4+offset] = inv.IssueDate
		cells[6+offset] = inv.CompanyName
		cells[8+offset] = inv.TaxID
		cells[10+offset] = inv.VATRate
		cells[12+offset] = inv.VATBase
		setRow(f, detailSheet, row, cells)
		row++
	}

	for _, inv := range result.LeftOnly {
		writeSingle("left only", inv, true)
	}
	for _, inv := range result.RightOnly {
		writeSingle("right only", inv, false)
	}
}

// SaveGenericWorkbook writes a generic-mode result as an XLSX workbook.
// With no fixed schema the detail sheet shows scores and the differing
// columns only.
func SaveGenericWorkbook(path string, result *reconciler.GenericResult) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), summarySheet)
	s := result.Summary
	rows := [][]interface{}{
		{"Left records", s.TotalLeft},
		{"Right records", s.TotalRight},
		{"Compared columns", s.Mappings},
		{"Identical", s.Identical},
		{"Value differences", s.ValueDifferences},
		{"Left only", s.LeftOnly},
		{"Right only", s.RightOnly},
	}
	for i, row := range rows {
		setRow(f, summarySheet, i+1, row)
	}

	if _, err := f.NewSheet(detailSheet); err != nil {
		return errors.Wrap(err, errors.CategoryReport, errors.CodeWriteFailed, "adding detail sheet")
	}

	setRow(f, detailSheet, 1, []interface{}{"Bucket", "Score", "Differences"})
	row := 2
	for _, p := range result.Identical {
		setRow(f, detailSheet, row, []interface{}{"identical", p.Score, ""})
		row++
	}
	for _, p := range result.ValueDifferences {
		setRow(f, detailSheet, row, []interface{}{"value", p.Score, joinDifferences(p.Differences)})
		row++
	}
	for range result.LeftOnly {
		setRow(f, detailSheet, row, []interface{}{"left only", "", ""})
		row++
	}
	for range result.RightOnly {
		setRow(f, detailSheet, row, []interface{}{"right only", "", ""})
		row++
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrap(err, errors.CategoryReport, errors.CodeWriteFailed, "saving workbook").
			WithContext("path", path)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			continue
		}
		f.SetCellValue(sheet, cell, v)
	}
}

func joinDifferences(diffs []models.Difference) string {
	if len(diffs) == 0 {
		return ""
	}
	parts := make([]string, len(diffs))
	for i, d := range diffs {
		parts[i] = d.String()
	}
	return strings.Join(parts, "; ")
}
