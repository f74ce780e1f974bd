package matcher

import (
	"github.com/shopspring/decimal"

	"github.com/mariuscozma11/program-conta/internal/models"
	"github.com/mariuscozma11/program-conta/internal/normalize"
)

// InvoicePair is one matched left/right invoice pair together with the
// phase that produced it and, for fallback pairs, the confidence score.
type InvoicePair struct {
	Left  *models.Invoice
	Right *models.Invoice

	// LeftIndex and RightIndex are the positions of the two records in
	// their input slices.
	LeftIndex  int
	RightIndex int

	Kind  MatchKind
	Score float64
}

// MatchSet is the raw outcome of the fixed-schema matcher: matched
// pairs in left input order, and the positions of the records left
// unclaimed on either side, in input order. Every input position
// appears exactly once across the three slices of its side.
type MatchSet struct {
	Pairs     []*InvoicePair
	LeftOnly  []int
	RightOnly []int
}

// MatchInvoices runs the fixed-schema matching over two invoice
// collections.
//
// Phase 1 pairs every left invoice whose composite key (tax id +
// invoice number) exists on the right. Phase 2 revisits unclaimed left
// invoices and scores unclaimed right candidates sharing the invoice
// number on date, amount and VAT rate proximity; the strictly best
// candidate above the threshold is claimed, left-to-right, first claim
// wins. Phase 3 collects the residue into the one-sided slices.
func MatchInvoices(left, right []*models.Invoice, cfg *Config) *MatchSet {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	rightIndex := NewInvoiceIndex(right)

	leftConsumed := make([]bool, len(left))
	rightConsumed := make([]bool, len(right))

	set := &MatchSet{}

	// Phase 1: exact composite key.
	for i, inv := range left {
		j, ok := rightIndex.LookupKey(CompositeKey(inv))
		if !ok || rightConsumed[j] {
			continue
		}

		set.Pairs = append(set.Pairs, &InvoicePair{
			Left:       inv,
			Right:      right[j],
			LeftIndex:  i,
			RightIndex: j,
			Kind:       KindExactKey,
			Score:      1.0,
		})
		leftConsumed[i] = true
		rightConsumed[j] = true
	}

	// Phase 2: scored fallback on invoice number alone.
	for i, inv := range left {
		if leftConsumed[i] {
			continue
		}

		number := normalize.InvoiceNumber(inv.InvoiceNumber)
		best := -1
		bestScore := 0.0
		for _, j := range rightIndex.CandidatesByNumber(number) {
			if rightConsumed[j] {
				continue
			}
			if score := cfg.scoreFallback(inv, right[j]); score > bestScore {
				best = j
				bestScore = score
			}
		}

		if best < 0 || bestScore <= cfg.FallbackMinScore {
			continue
		}

		set.Pairs = append(set.Pairs, &InvoicePair{
			Left:       inv,
			Right:      right[best],
			LeftIndex:  i,
			RightIndex: best,
			Kind:       KindFallback,
			Score:      bestScore,
		})
		leftConsumed[i] = true
		rightConsumed[best] = true
	}

	// Phase 3: residue.
	for i := range left {
		if !leftConsumed[i] {
			set.LeftOnly = append(set.LeftOnly, i)
		}
	}
	for j := range right {
		if !rightConsumed[j] {
			set.RightOnly = append(set.RightOnly, j)
		}
	}

	return set
}

// scoreFallback scores a fallback candidate pair that already shares an
// invoice number. Date and amount each contribute up to 0.4 (full for
// equality, partial for proximity), the VAT rate up to 0.2.
func (c *Config) scoreFallback(l, r *models.Invoice) float64 {
	score := 0.0

	leftDate := normalize.Date(l.IssueDate)
	rightDate := normalize.Date(r.IssueDate)
	if leftDate == rightDate {
		score += c.DateEqualScore
	} else if days, ok := normalize.DayDiff(leftDate, rightDate); ok && days <= c.DateWindowDays {
		score += c.DateCloseScore
	}

	leftBase := normalize.Amount(l.VATBase)
	rightBase := normalize.Amount(r.VATBase)
	if normalize.AmountsEqual(leftBase, rightBase) {
		score += c.AmountEqualScore
	} else if withinPercent(leftBase, rightBase, c.AmountWindowPercent) {
		score += c.AmountCloseScore
	}

	if normalize.AmountStringsEqual(l.VATRate, r.VATRate) {
		score += c.VATRateScore
	}

	return score
}

// withinPercent reports whether two amounts differ by at most the given
// percentage of the larger absolute amount.
func withinPercent(a, b decimal.Decimal, percent float64) bool {
	larger := a.Abs()
	if other := b.Abs(); other.GreaterThan(larger) {
		larger = other
	}
	if larger.IsZero() {
		return false
	}

	diff := a.Sub(b).Abs()
	limit := larger.Mul(decimal.NewFromFloat(percent / 100.0))
	return diff.LessThanOrEqual(limit)
}
