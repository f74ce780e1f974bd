package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mariuscozma11/program-conta/internal/reporter"
	"github.com/mariuscozma11/program-conta/pkg/errors"
)

// setFlags swaps the package-level flag state for one test and restores
// it afterwards.
func setFlags(t *testing.T, left, right, m, format, output string, maps []string) {
	t.Helper()

	prevLeft, prevRight := leftFile, rightFile
	prevMode, prevFormat, prevOutput := mode, outputFormat, outputFile
	prevMaps := columnMaps

	leftFile, rightFile = left, right
	mode, outputFormat, outputFile = m, format, output
	columnMaps = maps

	t.Cleanup(func() {
		leftFile, rightFile = prevLeft, prevRight
		mode, outputFormat, outputFile = prevMode, prevFormat, prevOutput
		columnMaps = prevMaps
	})
}

func TestValidateReconcileFlags(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		format   string
		output   string
		maps     []string
		wantCode errors.Code
	}{
		{"fixed console", modeFixed, "console", "", nil, ""},
		{"generic with map", modeGeneric, "console", "", []string{"a=b"}, ""},
		{"unknown mode", "fuzzy", "console", "", nil, errors.CodeInvalidConfig},
		{"generic without map", modeGeneric, "console", "", nil, errors.CodeInvalidMapping},
		{"bad format", modeFixed, "pdf", "", nil, errors.CodeInvalidConfig},
		{"xlsx without output", modeFixed, "xlsx", "", nil, errors.CodeInvalidConfig},
		{"xlsx with output", modeFixed, "xlsx", "out.xlsx", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setFlags(t, "l.csv", "r.csv", tt.mode, tt.format, tt.output, tt.maps)

			err := validateReconcileFlags(reconcileCmd, nil)
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("validateReconcileFlags() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Fatal("validateReconcileFlags() expected error")
			}
			ce, ok := errors.As(err)
			if !ok || ce.Code != tt.wantCode {
				t.Errorf("error code = %v, want %v", err, tt.wantCode)
			}
		})
	}
}

func TestRunReconcileFixedJSON(t *testing.T) {
	dir := t.TempDir()

	leftPath := filepath.Join(dir, "left.csv")
	rightPath := filepath.Join(dir, "right.csv")
	outPath := filepath.Join(dir, "report.json")

	leftCSV := "CodFiscal,NumarFactura,DataEmitere,NumeFirma,CotaTVA,BazaTVA\n" +
		"RO123,F-001,2024-01-10,ACME SRL,19,100.00\n" +
		"456,F-002,2024-01-11,Beta SRL,19,200.00\n"
	rightCSV := "CodFiscal,NumarFactura,DataEmitere,NumeFirma,CotaTVA,BazaTVA\n" +
		"123,F-001,2024-01-10,ACME SRL,19,100.00\n"

	if err := os.WriteFile(leftPath, []byte(leftCSV), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if err := os.WriteFile(rightPath, []byte(rightCSV), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	setFlags(t, leftPath, rightPath, modeFixed, "json", outPath, nil)

	if err := runReconcile(reconcileCmd, nil); err != nil {
		t.Fatalf("runReconcile() error = %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}

	var report reporter.InvoiceReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	if report.Summary.Identical != 1 {
		t.Errorf("Identical = %d, want 1 (prefix-stripped key should match)", report.Summary.Identical)
	}
	if report.Summary.LeftOnly != 1 {
		t.Errorf("LeftOnly = %d, want 1", report.Summary.LeftOnly)
	}
}

func TestRunReconcileMissingInput(t *testing.T) {
	setFlags(t, filepath.Join(t.TempDir(), "absent.csv"), "also-absent.csv", modeFixed, "console", "", nil)

	err := runReconcile(reconcileCmd, nil)
	if err == nil {
		t.Fatal("runReconcile() expected error for missing input")
	}
	if got := errors.ExitCode(err); got != 2 {
		t.Errorf("ExitCode = %d, want 2", got)
	}
}
