package reader

import (
	"strings"
	"unicode"

	"github.com/mariuscozma11/program-conta/internal/models"
	"github.com/mariuscozma11/program-conta/pkg/errors"
)

// InvoiceLayout names the table columns holding each invoice field.
// The zero value is replaced by DefaultInvoiceLayout.
type InvoiceLayout struct {
	InvoiceNumber string
	IssueDate     string
	CompanyName   string
	TaxID         string
	VATRate       string
	VATBase       string
}

// DefaultInvoiceLayout matches the column names of the standard export.
func DefaultInvoiceLayout() InvoiceLayout {
	return InvoiceLayout{
		InvoiceNumber: "NumarFactura",
		IssueDate:     "DataEmitere",
		CompanyName:   "NumeFirma",
		TaxID:         "CodFiscal",
		VATRate:       "CotaTVA",
		VATBase:       "BazaTVA",
	}
}

func (l InvoiceLayout) isZero() bool {
	return l == InvoiceLayout{}
}

// columns lists the configured column names in field order.
func (l InvoiceLayout) columns() []string {
	return []string{l.InvoiceNumber, l.IssueDate, l.CompanyName, l.TaxID, l.VATRate, l.VATBase}
}

// ParseInvoices maps a table onto invoices using the given layout.
// Rows with neither a tax id nor an invoice number are skipped. The
// tax id loses any leading two-letter country prefix here, so "RO123"
// and "123" read as the same counterparty downstream.
//
// The identifying columns (tax id and invoice number) must exist in
// the table; the remaining columns are optional and read as empty.
func ParseInvoices(table *Table, layout InvoiceLayout) ([]*models.Invoice, error) {
	if layout.isZero() {
		layout = DefaultInvoiceLayout()
	}

	for _, col := range []string{layout.TaxID, layout.InvoiceNumber} {
		if !table.HasColumn(col) {
			return nil, errors.New(errors.CategoryParse, errors.CodeMissingColumn,
				"required column not found: "+col).
				WithSuggestion("check the column names in the input file or adjust the layout")
		}
	}

	invoices := make([]*models.Invoice, 0, len(table.Rows))
	for _, row := range table.Rows {
		inv := models.NewInvoice(
			row.Get(layout.InvoiceNumber),
			row.Get(layout.IssueDate),
			row.Get(layout.CompanyName),
			StripCountryPrefix(row.Get(layout.TaxID)),
			row.Get(layout.VATRate),
			row.Get(layout.VATBase),
		)
		if inv.IsEmpty() {
			continue
		}
		invoices = append(invoices, inv)
	}

	return invoices, nil
}

// GenericRecords converts table rows into the column-keyed records the
// generic matcher consumes.
func GenericRecords(table *Table) []models.GenericRecord {
	records := make([]models.GenericRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		rec := make(models.GenericRecord, len(row))
		for k, v := range row {
			rec[k] = v
		}
		records = append(records, rec)
	}
	return records
}

// StripCountryPrefix removes a leading two-letter country code from a
// tax identifier, as in "RO12345678". The prefix is dropped only when
// letters are followed by at least one digit, so purely alphabetic
// values pass through unchanged.
func StripCountryPrefix(taxID string) string {
	s := strings.TrimSpace(taxID)
	runes := []rune(s)
	if len(runes) < 3 {
		return s
	}
	if !unicode.IsLetter(runes[0]) || !unicode.IsLetter(runes[1]) {
		return s
	}
	if !unicode.IsDigit(runes[2]) {
		return s
	}
	return string(runes[2:])
}
