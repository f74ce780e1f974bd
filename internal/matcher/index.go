package matcher

import (
	"github.com/mariuscozma11/program-conta/internal/models"
	"github.com/mariuscozma11/program-conta/internal/normalize"
)

// keySeparator joins the components of a composite key. The unit
// separator does not occur in source data, so joined keys cannot
// collide with each other by concatenation.
const keySeparator = "\x1f"

// CompositeKey builds the exact-match key of an invoice: normalized tax
// id and normalized invoice number. Keys are used for lookups only and
// never displayed.
func CompositeKey(inv *models.Invoice) string {
	return normalize.TaxID(inv.TaxID) + keySeparator + normalize.InvoiceNumber(inv.InvoiceNumber)
}

// InvoiceIndex provides the two lookup structures of the fixed-schema
// matcher. Entries hold positions into the indexed slice rather than
// record pointers, so consumption tracking stays positional.
type InvoiceIndex struct {
	// ByKey maps a composite key to the position of the invoice
	// carrying it. A duplicate key silently overwrites the earlier
	// entry (last write wins); this is a known limitation kept for
	// compatibility with existing reports.
	ByKey map[string]int

	// ByInvoiceNumber maps a normalized invoice number to the
	// positions of every invoice carrying it, in input order. This is
	// the candidate pool of the fallback phase.
	ByInvoiceNumber map[string][]int

	// Invoices holds the indexed slice.
	Invoices []*models.Invoice
}

// NewInvoiceIndex builds the index of one source's invoices.
func NewInvoiceIndex(invoices []*models.Invoice) *InvoiceIndex {
	idx := &InvoiceIndex{
		ByKey:           make(map[string]int, len(invoices)),
		ByInvoiceNumber: make(map[string][]int),
		Invoices:        invoices,
	}

	for i, inv := range invoices {
		idx.ByKey[CompositeKey(inv)] = i

		num := normalize.InvoiceNumber(inv.InvoiceNumber)
		idx.ByInvoiceNumber[num] = append(idx.ByInvoiceNumber[num], i)
	}

	return idx
}

// LookupKey returns the position of the invoice with the given
// composite key, if any.
func (idx *InvoiceIndex) LookupKey(key string) (int, bool) {
	i, ok := idx.ByKey[key]
	return i, ok
}

// CandidatesByNumber returns the positions of all invoices sharing the
// given normalized invoice number, in input order.
func (idx *InvoiceIndex) CandidatesByNumber(number string) []int {
	return idx.ByInvoiceNumber[number]
}

// Len returns the number of indexed invoices.
func (idx *InvoiceIndex) Len() int {
	return len(idx.Invoices)
}
