package models

import (
	"fmt"
	"strings"
)

// Field identifies one of the six canonical invoice fields.
type Field string

const (
	FieldInvoiceNumber Field = "invoice_number"
	FieldIssueDate     Field = "issue_date"
	FieldCompanyName   Field = "company_name"
	FieldTaxID         Field = "tax_id"
	FieldVATRate       Field = "vat_rate"
	FieldVATBase       Field = "vat_base"
)

// String returns the string representation of Field
func (f Field) String() string {
	return string(f)
}

// Label returns the human-readable name used in difference descriptions
// and report headers.
func (f Field) Label() string {
	switch f {
	case FieldInvoiceNumber:
		return "Invoice number"
	case FieldIssueDate:
		return "Issue date"
	case FieldCompanyName:
		return "Company name"
	case FieldTaxID:
		return "Tax ID"
	case FieldVATRate:
		return "VAT rate"
	case FieldVATBase:
		return "VAT base"
	default:
		return string(f)
	}
}

// IsCounterparty reports whether the field describes the reported party
// rather than the invoice values. Pairs whose only disagreements are
// counterparty fields form a distinct result bucket.
func (f Field) IsCounterparty() bool {
	return f == FieldCompanyName || f == FieldTaxID
}

// Invoice is a fixed-schema invoice row. All fields hold the raw string
// values as read from the source; typing is reapplied during
// normalization, never at parse time.
type Invoice struct {
	InvoiceNumber string `json:"invoice_number"`
	IssueDate     string `json:"issue_date"`
	CompanyName   string `json:"company_name"`
	TaxID         string `json:"tax_id"`
	VATRate       string `json:"vat_rate"`
	VATBase       string `json:"vat_base"`
}

// NewInvoice creates a new Invoice instance
func NewInvoice(number, date, company, taxID, vatRate, vatBase string) *Invoice {
	return &Invoice{
		InvoiceNumber: number,
		IssueDate:     date,
		CompanyName:   company,
		TaxID:         taxID,
		VATRate:       vatRate,
		VATBase:       vatBase,
	}
}

// Get returns the raw value of the given field.
func (inv *Invoice) Get(f Field) string {
	switch f {
	case FieldInvoiceNumber:
		return inv.InvoiceNumber
	case FieldIssueDate:
		return inv.IssueDate
	case FieldCompanyName:
		return inv.CompanyName
	case FieldTaxID:
		return inv.TaxID
	case FieldVATRate:
		return inv.VATRate
	case FieldVATBase:
		return inv.VATBase
	default:
		return ""
	}
}

// IsEmpty reports whether the row carries neither a tax id nor an
// invoice number. Readers drop such rows before reconciliation.
func (inv *Invoice) IsEmpty() bool {
	return strings.TrimSpace(inv.TaxID) == "" && strings.TrimSpace(inv.InvoiceNumber) == ""
}

// String returns a string representation of the Invoice
func (inv *Invoice) String() string {
	return fmt.Sprintf("Invoice{Number: %s, Date: %s, Company: %s, TaxID: %s, VAT: %s, Base: %s}",
		inv.InvoiceNumber, inv.IssueDate, inv.CompanyName, inv.TaxID, inv.VATRate, inv.VATBase)
}

// GenericRecord is a schema-agnostic row: an open mapping from column
// name to raw string value. The column set is fixed per source but not
// shared across sources.
type GenericRecord map[string]string

// Get returns the value for the given column, or the empty string when
// the column is absent. A missing key never fails.
func (r GenericRecord) Get(column string) string {
	return r[column]
}

// Clone returns a shallow copy of the record.
func (r GenericRecord) Clone() GenericRecord {
	out := make(GenericRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ColumnMapping declares that a column of the left source is compared
// against a column of the right source in generic mode. Mappings are
// independent; a column may appear in any number of them.
type ColumnMapping struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// String returns the "left=right" form used on the command line.
func (m ColumnMapping) String() string {
	return m.Left + "=" + m.Right
}

// ParseColumnMapping parses a "left=right" pair as given on the command
// line.
func ParseColumnMapping(s string) (ColumnMapping, error) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return ColumnMapping{}, fmt.Errorf("invalid column mapping %q: expected form LeftColumn=RightColumn", s)
	}
	return ColumnMapping{
		Left:  strings.TrimSpace(parts[0]),
		Right: strings.TrimSpace(parts[1]),
	}, nil
}

// Difference describes one field-level disagreement inside a matched
// pair, referencing the field and both raw values.
type Difference struct {
	// Field is set for fixed-schema comparisons.
	Field Field `json:"field,omitempty"`

	// Column names the left-side column for generic-mode comparisons.
	Column string `json:"column,omitempty"`

	Left  string `json:"left"`
	Right string `json:"right"`
}

// Name returns the display name of the differing field or column.
func (d Difference) Name() string {
	if d.Field != "" {
		return d.Field.Label()
	}
	return d.Column
}

// String renders the difference in the form shown in reports.
func (d Difference) String() string {
	return fmt.Sprintf("%s: %q vs %q", d.Name(), d.Left, d.Right)
}

// IsCounterparty reports whether the difference touches only the
// company name or tax id.
func (d Difference) IsCounterparty() bool {
	return d.Field.IsCounterparty()
}
