package reconciler

import (
	"github.com/mariuscozma11/program-conta/internal/matcher"
	"github.com/mariuscozma11/program-conta/internal/models"
	"github.com/mariuscozma11/program-conta/internal/normalize"
	"github.com/mariuscozma11/program-conta/internal/similarity"
)

// bucket is the classification of a matched pair's difference list.
type bucket int

const (
	bucketIdentical bucket = iota
	bucketCounterparty
	bucketValue
)

// compareInvoicePair computes the field-level difference list of a
// matched fixed-schema pair. Issue date, company name, VAT rate and VAT
// base are always compared. The tax id is part of the composite key for
// exact pairs, so it is compared only when the pair came from the
// invoice-number-only fallback phase, where the two ids may genuinely
// differ.
func compareInvoicePair(pair *matcher.InvoicePair) []models.Difference {
	l, r := pair.Left, pair.Right
	var diffs []models.Difference

	if normalize.Date(l.IssueDate) != normalize.Date(r.IssueDate) {
		diffs = append(diffs, models.Difference{
			Field: models.FieldIssueDate,
			Left:  l.IssueDate,
			Right: r.IssueDate,
		})
	}

	if !similarity.CompanyNamesMatch(l.CompanyName, r.CompanyName) {
		diffs = append(diffs, models.Difference{
			Field: models.FieldCompanyName,
			Left:  l.CompanyName,
			Right: r.CompanyName,
		})
	}

	if pair.Kind == matcher.KindFallback && normalize.TaxID(l.TaxID) != normalize.TaxID(r.TaxID) {
		diffs = append(diffs, models.Difference{
			Field: models.FieldTaxID,
			Left:  l.TaxID,
			Right: r.TaxID,
		})
	}

	if !normalize.AmountStringsEqual(l.VATRate, r.VATRate) {
		diffs = append(diffs, models.Difference{
			Field: models.FieldVATRate,
			Left:  l.VATRate,
			Right: r.VATRate,
		})
	}

	if !normalize.AmountStringsEqual(l.VATBase, r.VATBase) {
		diffs = append(diffs, models.Difference{
			Field: models.FieldVATBase,
			Left:  l.VATBase,
			Right: r.VATBase,
		})
	}

	return diffs
}

// classifyDifferences assigns a difference list to a result bucket: no
// differences is identical, differences touching only counterparty
// fields (company name, tax id) form the counterparty bucket, anything
// else is a value difference.
func classifyDifferences(diffs []models.Difference) bucket {
	if len(diffs) == 0 {
		return bucketIdentical
	}

	for _, d := range diffs {
		if !d.IsCounterparty() {
			return bucketValue
		}
	}
	return bucketCounterparty
}
