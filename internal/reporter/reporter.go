// Package reporter renders reconciliation results for people and
// machines. It supports a console summary for terminal use, a JSON
// export for downstream tooling, and an XLSX workbook for handing the
// result back to the accountants who produced the inputs.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mariuscozma11/program-conta/internal/models"
	"github.com/mariuscozma11/program-conta/internal/reconciler"
	"github.com/mariuscozma11/program-conta/pkg/errors"
)

// OutputFormat selects how a result is rendered.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatXLSX    OutputFormat = "xlsx"
)

// IsValid reports whether the format is one of the supported values.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatXLSX:
		return true
	}
	return false
}

// ParseFormat validates a format name from the command line.
func ParseFormat(s string) (OutputFormat, error) {
	f := OutputFormat(s)
	if !f.IsValid() {
		return "", errors.Newf(errors.CategoryConfig, errors.CodeInvalidConfig,
			"unknown output format %q", s).
			WithSuggestion("use one of: console, json, xlsx")
	}
	return f, nil
}

// MatchedEntry is the export shape of a matched pair.
type MatchedEntry struct {
	Left        *models.Invoice     `json:"left"`
	Right       *models.Invoice     `json:"right"`
	Kind        string              `json:"kind"`
	Score       float64             `json:"score,omitempty"`
	Differences []models.Difference `json:"differences,omitempty"`
}

// InvoiceReport is the serializable form of a fixed-schema result.
type InvoiceReport struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	Summary     reconciler.InvoiceSummary `json:"summary"`

	Identical               []MatchedEntry `json:"identical"`
	CounterpartyDifferences []MatchedEntry `json:"counterparty_differences"`
	ValueDifferences        []MatchedEntry `json:"value_differences"`

	LeftOnly  []*models.Invoice `json:"left_only"`
	RightOnly []*models.Invoice `json:"right_only"`
}

// BuildInvoiceReport converts an engine result into its export shape.
func BuildInvoiceReport(result *reconciler.InvoiceResult) *InvoiceReport {
	report := &InvoiceReport{
		GeneratedAt: time.Now(),
		Summary:     result.Summary,
		LeftOnly:    result.LeftOnly,
		RightOnly:   result.RightOnly,
	}

	convert := func(pairs []*reconciler.MatchedInvoice) []MatchedEntry {
		entries := make([]MatchedEntry, 0, len(pairs))
		for _, p := range pairs {
			entries = append(entries, MatchedEntry{
				Left:        p.Left,
				Right:       p.Right,
				Kind:        p.Kind.String(),
				Score:       p.Score,
				Differences: p.Differences,
			})
		}
		return entries
	}

	report.Identical = convert(result.Identical)
	report.CounterpartyDifferences = convert(result.CounterpartyDifferences)
	report.ValueDifferences = convert(result.ValueDifferences)

	return report
}

// GenericEntry is the export shape of a generic-mode matched pair.
type GenericEntry struct {
	Left        models.GenericRecord `json:"left"`
	Right       models.GenericRecord `json:"right"`
	Score       float64              `json:"score"`
	Differences []models.Difference  `json:"differences,omitempty"`
}

// GenericReport is the serializable form of a generic-mode result.
type GenericReport struct {
	GeneratedAt time.Time                 `json:"generated_at"`
	Summary     reconciler.GenericSummary `json:"summary"`

	Identical        []GenericEntry `json:"identical"`
	ValueDifferences []GenericEntry `json:"value_differences"`

	LeftOnly  []models.GenericRecord `json:"left_only"`
	RightOnly []models.GenericRecord `json:"right_only"`
}

// BuildGenericReport converts a generic engine result into its export
// shape.
func BuildGenericReport(result *reconciler.GenericResult) *GenericReport {
	report := &GenericReport{
		GeneratedAt: time.Now(),
		Summary:     result.Summary,
		LeftOnly:    result.LeftOnly,
		RightOnly:   result.RightOnly,
	}

	for _, p := range result.Identical {
		report.Identical = append(report.Identical, GenericEntry{
			Left: p.Left, Right: p.Right, Score: p.Score, Differences: p.Differences,
		})
	}
	for _, p := range result.ValueDifferences {
		report.ValueDifferences = append(report.ValueDifferences, GenericEntry{
			Left: p.Left, Right: p.Right, Score: p.Score, Differences: p.Differences,
		})
	}

	return report
}

// WriteJSON writes any report in indented JSON.
func WriteJSON(w io.Writer, report interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Wrap(err, errors.CategoryReport, errors.CodeWriteFailed, "encoding JSON report")
	}
	return nil
}

// WriteConsole writes a human-readable fixed-schema report.
func WriteConsole(w io.Writer, result *reconciler.InvoiceResult) error {
	s := result.Summary

	fmt.Fprintln(w, "Reconciliation report")
	fmt.Fprintln(w, "=====================")
	fmt.Fprintf(w, "Left records:   %d (base %s)\n", s.TotalLeft, s.MatchedBase.Add(s.LeftOnlyBase).StringFixed(2))
	fmt.Fprintf(w, "Right records:  %d\n", s.TotalRight)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Identical:                 %d\n", s.Identical)
	fmt.Fprintf(w, "Counterparty differences:  %d\n", s.CounterpartyDifferences)
	fmt.Fprintf(w, "Value differences:         %d\n", s.ValueDifferences)
	fmt.Fprintf(w, "Left only:                 %d (base %s)\n", s.LeftOnly, s.LeftOnlyBase.StringFixed(2))
	fmt.Fprintf(w, "Right only:                %d (base %s)\n", s.RightOnly, s.RightOnlyBase.StringFixed(2))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Matched by key:      %d\n", s.ExactKeyMatches)
	fmt.Fprintf(w, "Matched by scoring:  %d\n", s.FallbackMatches)
	fmt.Fprintf(w, "Matched base total:  %s\n", s.MatchedBase.StringFixed(2))

	writeDifferingPairs(w, "Counterparty differences", result.CounterpartyDifferences)
	writeDifferingPairs(w, "Value differences", result.ValueDifferences)
	writeOneSided(w, "Only in left source", result.LeftOnly)
	writeOneSided(w, "Only in right source", result.RightOnly)

	return nil
}

func writeDifferingPairs(w io.Writer, title string, pairs []*reconciler.MatchedInvoice) {
	if len(pairs) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s\n%s\n", title, underline(title))
	for _, p := range pairs {
		fmt.Fprintf(w, "  %s / %s (%s)\n", p.Left.InvoiceNumber, p.Right.InvoiceNumber, p.Kind)
		for _, d := range p.Differences {
			fmt.Fprintf(w, "    %s\n", d.String())
		}
	}
}

func writeOneSided(w io.Writer, title string, invoices []*models.Invoice) {
	if len(invoices) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s\n%s\n", title, underline(title))
	for _, inv := range invoices {
		fmt.Fprintf(w, "  %s  %s  %s  base %s\n", inv.InvoiceNumber, inv.IssueDate, inv.CompanyName, inv.VATBase)
	}
}

// WriteGenericConsole writes a human-readable generic-mode report.
func WriteGenericConsole(w io.Writer, result *reconciler.GenericResult) error {
	s := result.Summary

	fmt.Fprintln(w, "Reconciliation report (generic mode)")
	fmt.Fprintln(w, "====================================")
	fmt.Fprintf(w, "Left records:   %d\n", s.TotalLeft)
	fmt.Fprintf(w, "Right records:  %d\n", s.TotalRight)
	fmt.Fprintf(w, "Compared columns: %d\n", s.Mappings)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Identical:          %d\n", s.Identical)
	fmt.Fprintf(w, "Value differences:  %d\n", s.ValueDifferences)
	fmt.Fprintf(w, "Left only:          %d\n", s.LeftOnly)
	fmt.Fprintf(w, "Right only:         %d\n", s.RightOnly)

	if len(result.ValueDifferences) > 0 {
		title := "Value differences"
		fmt.Fprintf(w, "\n%s\n%s\n", title, underline(title))
		for _, p := range result.ValueDifferences {
			fmt.Fprintf(w, "  pair with score %.2f\n", p.Score)
			for _, d := range p.Differences {
				fmt.Fprintf(w, "    %s\n", d.String())
			}
		}
	}

	return nil
}

func underline(s string) string {
	b := make([]byte, len(s))
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}
