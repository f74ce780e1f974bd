package reader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mariuscozma11/program-conta/pkg/errors"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestReadCSV(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("a,b,c\n1,2,3\n4,5,6\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	if len(table.Headers) != 3 {
		t.Errorf("Headers = %v, want 3 columns", table.Headers)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("Rows = %d, want 2", len(table.Rows))
	}
	if got := table.Rows[1].Get("b"); got != "5" {
		t.Errorf("Rows[1][b] = %q, want %q", got, "5")
	}
}

func TestReadCSVSemicolonDelimiter(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("a;b\n1,5;2\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	if len(table.Headers) != 2 {
		t.Fatalf("Headers = %v, want 2 columns", table.Headers)
	}
	if got := table.Rows[0].Get("a"); got != "1,5" {
		t.Errorf("Rows[0][a] = %q, want %q (comma kept inside the field)", got, "1,5")
	}
}

func TestReadCSVShortRowsPadded(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("a,b,c\n1,2\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	if got := table.Rows[0].Get("c"); got != "" {
		t.Errorf("missing trailing field = %q, want empty", got)
	}
}

func TestReadCSVSkipsEmptyRows(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("\na,b\n1,2\n,\n3,4\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	if len(table.Rows) != 2 {
		t.Errorf("Rows = %d, want 2 (blank rows dropped)", len(table.Rows))
	}
	if table.Headers[0] != "a" {
		t.Errorf("Headers[0] = %q, want %q (leading blank line skipped)", table.Headers[0], "a")
	}
}

func TestReadCSVEmptyInput(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	if err == nil {
		t.Fatal("ReadCSV() expected error for empty input")
	}

	ce, ok := errors.As(err)
	if !ok || ce.Code != errors.CodeMissingHeader {
		t.Errorf("error code = %v, want %v", err, errors.CodeMissingHeader)
	}
}

func TestLoadTableDispatch(t *testing.T) {
	path := writeTempFile(t, "in.csv", "a,b\n1,2\n")

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() error = %v", err)
	}
	if len(table.Rows) != 1 {
		t.Errorf("Rows = %d, want 1", len(table.Rows))
	}
}

func TestLoadTableMissingFile(t *testing.T) {
	_, err := LoadTable(filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatal("LoadTable() expected error for missing file")
	}

	ce, ok := errors.As(err)
	if !ok || ce.Code != errors.CodeFileNotFound {
		t.Errorf("error code = %v, want %v", err, errors.CodeFileNotFound)
	}
}

func TestLoadTableUnsupportedFormat(t *testing.T) {
	path := writeTempFile(t, "in.pdf", "not a table")

	_, err := LoadTable(path)
	if err == nil {
		t.Fatal("LoadTable() expected error for unsupported extension")
	}

	ce, ok := errors.As(err)
	if !ok || ce.Code != errors.CodeUnsupportedFormat {
		t.Errorf("error code = %v, want %v", err, errors.CodeUnsupportedFormat)
	}
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "CodFiscal")
	f.SetCellValue(sheet, "B1", "NumarFactura")
	f.SetCellValue(sheet, "A2", "RO123")
	f.SetCellValue(sheet, "B2", "F-001")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("writing fixture workbook: %v", err)
	}
	f.Close()

	table, err := ReadXLSX(path)
	if err != nil {
		t.Fatalf("ReadXLSX() error = %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("Rows = %d, want 1", len(table.Rows))
	}
	if got := table.Rows[0].Get("CodFiscal"); got != "RO123" {
		t.Errorf("Rows[0][CodFiscal] = %q, want %q", got, "RO123")
	}
}

func TestHasColumn(t *testing.T) {
	table := &Table{Headers: []string{"a", "b"}}
	if !table.HasColumn("a") {
		t.Error("HasColumn(a) = false, want true")
	}
	if table.HasColumn("c") {
		t.Error("HasColumn(c) = true, want false")
	}
}
