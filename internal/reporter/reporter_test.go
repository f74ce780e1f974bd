package reporter

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mariuscozma11/program-conta/internal/matcher"
	"github.com/mariuscozma11/program-conta/internal/models"
	"github.com/mariuscozma11/program-conta/internal/reconciler"
)

// fixtureResult reconciles a small scenario with one identical pair,
// one value difference and one record on each side only.
func fixtureResult(t *testing.T) *reconciler.InvoiceResult {
	t.Helper()

	left := []*models.Invoice{
		models.NewInvoice("F-001", "2024-01-10", "ACME SRL", "123", "19", "100.00"),
		models.NewInvoice("F-002", "2024-01-11", "Beta SRL", "456", "19", "200.00"),
		models.NewInvoice("F-003", "2024-01-12", "Gama SRL", "789", "19", "50.00"),
	}
	right := []*models.Invoice{
		models.NewInvoice("F-001", "2024-01-10", "ACME SRL", "123", "19", "100.00"),
		models.NewInvoice("F-002", "2024-01-11", "Beta SRL", "456", "19", "250.00"),
		models.NewInvoice("F-009", "2024-01-13", "Delta SRL", "999", "19", "75.00"),
	}

	return reconciler.ReconcileInvoices(left, right, matcher.DefaultConfig())
}

func TestBuildInvoiceReport(t *testing.T) {
	report := BuildInvoiceReport(fixtureResult(t))

	if len(report.Identical) != 1 {
		t.Errorf("Identical = %d, want 1", len(report.Identical))
	}
	if len(report.ValueDifferences) != 1 {
		t.Fatalf("ValueDifferences = %d, want 1", len(report.ValueDifferences))
	}
	if got := report.ValueDifferences[0].Kind; got != "exact-key" {
		t.Errorf("Kind = %q, want %q", got, "exact-key")
	}
	if len(report.LeftOnly) != 1 || len(report.RightOnly) != 1 {
		t.Errorf("one-sided = %d/%d, want 1/1", len(report.LeftOnly), len(report.RightOnly))
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, BuildInvoiceReport(fixtureResult(t))); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded InvoiceReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Summary.TotalLeft != 3 {
		t.Errorf("decoded TotalLeft = %d, want 3", decoded.Summary.TotalLeft)
	}
}

func TestWriteConsole(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteConsole(&buf, fixtureResult(t)); err != nil {
		t.Fatalf("WriteConsole() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Identical:                 1",
		"Value differences:         1",
		"Only in left source",
		"Only in right source",
		`VAT base: "200.00" vs "250.00"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("console output missing %q\n%s", want, out)
		}
	}
}

func TestSaveInvoiceWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	if err := SaveInvoiceWorkbook(path, fixtureResult(t)); err != nil {
		t.Fatalf("SaveInvoiceWorkbook() error = %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reading workbook back: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(detailSheet)
	if err != nil {
		t.Fatalf("reading detail sheet: %v", err)
	}

	// header + 2 matched pairs + 2 one-sided records
	if len(rows) != 5 {
		t.Fatalf("detail rows = %d, want 5", len(rows))
	}

	last := rows[len(rows)-1]
	if got := last[len(last)-1]; got != "425.00" {
		t.Errorf("final running base = %q, want %q", got, "425.00")
	}

	summary, err := f.GetRows(summarySheet)
	if err != nil {
		t.Fatalf("reading summary sheet: %v", err)
	}
	if len(summary) == 0 || summary[0][0] != "Left records" {
		t.Errorf("unexpected summary sheet contents: %v", summary)
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"console", "json", "xlsx"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", s, err)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("ParseFormat(pdf) expected error")
	}
}

func TestWriteGenericConsole(t *testing.T) {
	left := []models.GenericRecord{{"id": "1", "val": "10"}}
	right := []models.GenericRecord{{"id": "1", "val": "99"}}
	mappings := []models.ColumnMapping{{Left: "id", Right: "id"}, {Left: "val", Right: "val"}}

	result := reconciler.ReconcileGeneric(left, right, mappings, matcher.DefaultConfig())

	var buf bytes.Buffer
	if err := WriteGenericConsole(&buf, result); err != nil {
		t.Fatalf("WriteGenericConsole() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Value differences:  1") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
