// Package reconciler is the engine's public surface: it runs the
// matchers over two record collections, classifies every matched pair,
// and assembles the exhaustive result buckets.
//
// The engine is a pure in-memory batch computation. It owns no state
// across calls, performs no I/O, and never fails: any two well-formed
// collections (including empty ones) produce a valid result in which
// every input record appears in exactly one bucket, exactly once.
package reconciler

import (
	"github.com/shopspring/decimal"

	"github.com/mariuscozma11/program-conta/internal/matcher"
	"github.com/mariuscozma11/program-conta/internal/models"
	"github.com/mariuscozma11/program-conta/internal/normalize"
)

// MatchedInvoice is a matched fixed-schema pair together with its
// field-level differences.
type MatchedInvoice struct {
	*matcher.InvoicePair
	Differences []models.Difference
}

// InvoiceResult is the outcome of a fixed-schema reconciliation. The
// buckets are disjoint and exhaustive over both inputs; ordering within
// each bucket follows left (or right, for RightOnly) input order.
type InvoiceResult struct {
	// Identical holds pairs with no field difference at all.
	Identical []*MatchedInvoice

	// CounterpartyDifferences holds pairs whose only disagreements are
	// the company name and/or tax id: same invoice event, different
	// reported party.
	CounterpartyDifferences []*MatchedInvoice

	// ValueDifferences holds every other differing pair.
	ValueDifferences []*MatchedInvoice

	LeftOnly  []*models.Invoice
	RightOnly []*models.Invoice

	Summary InvoiceSummary
}

// Matched returns all matched pairs across the three matched buckets,
// identical first, then counterparty, then value differences.
func (r *InvoiceResult) Matched() []*MatchedInvoice {
	out := make([]*MatchedInvoice, 0, len(r.Identical)+len(r.CounterpartyDifferences)+len(r.ValueDifferences))
	out = append(out, r.Identical...)
	out = append(out, r.CounterpartyDifferences...)
	out = append(out, r.ValueDifferences...)
	return out
}

// InvoiceSummary aggregates bucket counts and amount totals for
// reporting.
type InvoiceSummary struct {
	TotalLeft  int `json:"total_left"`
	TotalRight int `json:"total_right"`

	Identical               int `json:"identical"`
	CounterpartyDifferences int `json:"counterparty_differences"`
	ValueDifferences        int `json:"value_differences"`
	LeftOnly                int `json:"left_only"`
	RightOnly               int `json:"right_only"`

	ExactKeyMatches int `json:"exact_key_matches"`
	FallbackMatches int `json:"fallback_matches"`

	MatchedBase   decimal.Decimal `json:"matched_base"`
	LeftOnlyBase  decimal.Decimal `json:"left_only_base"`
	RightOnlyBase decimal.Decimal `json:"right_only_base"`
}

// ReconcileInvoices reconciles two fixed-schema invoice collections.
// Input order matters: the fallback phase resolves left records in
// order and earlier records claim candidates first.
func ReconcileInvoices(left, right []*models.Invoice, cfg *matcher.Config) *InvoiceResult {
	set := matcher.MatchInvoices(left, right, cfg)

	result := &InvoiceResult{
		Summary: InvoiceSummary{
			TotalLeft:     len(left),
			TotalRight:    len(right),
			MatchedBase:   decimal.Zero,
			LeftOnlyBase:  decimal.Zero,
			RightOnlyBase: decimal.Zero,
		},
	}

	for _, pair := range set.Pairs {
		matched := &MatchedInvoice{
			InvoicePair: pair,
			Differences: compareInvoicePair(pair),
		}

		switch classifyDifferences(matched.Differences) {
		case bucketIdentical:
			result.Identical = append(result.Identical, matched)
			result.Summary.Identical++
		case bucketCounterparty:
			result.CounterpartyDifferences = append(result.CounterpartyDifferences, matched)
			result.Summary.CounterpartyDifferences++
		default:
			result.ValueDifferences = append(result.ValueDifferences, matched)
			result.Summary.ValueDifferences++
		}

		switch pair.Kind {
		case matcher.KindExactKey:
			result.Summary.ExactKeyMatches++
		case matcher.KindFallback:
			result.Summary.FallbackMatches++
		}

		result.Summary.MatchedBase = result.Summary.MatchedBase.Add(normalize.Amount(pair.Left.VATBase))
	}

	for _, i := range set.LeftOnly {
		result.LeftOnly = append(result.LeftOnly, left[i])
		result.Summary.LeftOnlyBase = result.Summary.LeftOnlyBase.Add(normalize.Amount(left[i].VATBase))
	}
	for _, j := range set.RightOnly {
		result.RightOnly = append(result.RightOnly, right[j])
		result.Summary.RightOnlyBase = result.Summary.RightOnlyBase.Add(normalize.Amount(right[j].VATBase))
	}

	result.Summary.LeftOnly = len(result.LeftOnly)
	result.Summary.RightOnly = len(result.RightOnly)

	return result
}

// GenericResult is the outcome of a generic-mode reconciliation. With
// an unconstrained schema there is no counterparty concept, so matched
// pairs split into identical and value-difference only.
type GenericResult struct {
	Identical        []*matcher.GenericPair
	ValueDifferences []*matcher.GenericPair

	LeftOnly  []models.GenericRecord
	RightOnly []models.GenericRecord

	Summary GenericSummary
}

// GenericSummary aggregates generic-mode bucket counts.
type GenericSummary struct {
	TotalLeft  int `json:"total_left"`
	TotalRight int `json:"total_right"`

	Identical        int `json:"identical"`
	ValueDifferences int `json:"value_differences"`
	LeftOnly         int `json:"left_only"`
	RightOnly        int `json:"right_only"`

	Mappings int `json:"mappings"`
}

// ReconcileGeneric reconciles two arbitrary tabular sources using the
// declared column mappings.
func ReconcileGeneric(left, right []models.GenericRecord, mappings []models.ColumnMapping, cfg *matcher.Config) *GenericResult {
	set := matcher.MatchGeneric(left, right, mappings, cfg)

	result := &GenericResult{
		Summary: GenericSummary{
			TotalLeft:  len(left),
			TotalRight: len(right),
			Mappings:   len(mappings),
		},
	}

	for _, pair := range set.Pairs {
		if len(pair.Differences) == 0 {
			result.Identical = append(result.Identical, pair)
			result.Summary.Identical++
		} else {
			result.ValueDifferences = append(result.ValueDifferences, pair)
			result.Summary.ValueDifferences++
		}
	}

	for _, i := range set.LeftOnly {
		result.LeftOnly = append(result.LeftOnly, left[i])
	}
	for _, j := range set.RightOnly {
		result.RightOnly = append(result.RightOnly, right[j])
	}

	result.Summary.LeftOnly = len(result.LeftOnly)
	result.Summary.RightOnly = len(result.RightOnly)

	return result
}
