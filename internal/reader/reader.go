// Package reader decodes delimited-text and spreadsheet files into
// tables of named string columns. This is thin I/O glue in front of
// the reconciliation engine: the engine itself never touches file
// bytes.
//
// Supported formats: CSV (comma or semicolon delimited), XLSX and
// legacy binary XLS. Every cell is delivered as its string value;
// typing is reapplied later by the normalizers.
package reader

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"github.com/mariuscozma11/program-conta/pkg/errors"
	"github.com/mariuscozma11/program-conta/pkg/logger"
)

// Row maps a column name to the raw cell value. A missing column reads
// as the empty string.
type Row map[string]string

// Get returns the value of the given column, empty when absent.
func (r Row) Get(column string) string {
	return r[column]
}

// Table is an ordered set of named columns and data rows, the common
// shape all readers produce. The header row is never part of Rows.
type Table struct {
	Headers []string
	Rows    []Row
}

// HasColumn reports whether the table carries the given column.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// LoadTable reads the file at path, dispatching on its extension.
func LoadTable(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.FileError(errors.CodeFileNotFound, path, err)
	}

	log := logger.WithComponent("reader")

	var (
		table *Table
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		table, err = ReadCSVFile(path)
	case ".xlsx":
		table, err = ReadXLSX(path)
	case ".xls":
		table, err = ReadXLS(path)
	default:
		return nil, errors.FileError(errors.CodeUnsupportedFormat, path, nil)
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(logger.Fields{
		"path":    path,
		"columns": len(table.Headers),
		"rows":    len(table.Rows),
	}).Info("Loaded table")

	return table, nil
}

// ReadCSVFile reads a delimited text file. The delimiter is sniffed
// from the header row: a semicolon-separated export (common for
// spreadsheet software in comma-decimal locales) is detected by
// semicolons outnumbering commas.
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.FileError(errors.CodeFileNotFound, path, err)
	}
	defer f.Close()

	table, err := ReadCSV(f)
	if err != nil {
		if ce, ok := errors.As(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	return table, nil
}

// ReadCSV reads delimited text from a reader.
func ReadCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryFile, errors.CodeFileCorrupted, "reading input")
	}

	content := string(data)
	delimiter := sniffDelimiter(content)

	cr := csv.NewReader(strings.NewReader(content))
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryParse, errors.CodeFileCorrupted, "decoding delimited text")
	}

	return tableFromRecords(records)
}

// sniffDelimiter inspects the first line and picks the delimiter that
// splits it into more fields.
func sniffDelimiter(content string) rune {
	firstLine := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		firstLine = content[:i]
	}

	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}

// ReadXLSX reads the first sheet of an XLSX workbook.
func ReadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.FileError(errors.CodeFileCorrupted, path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.ParseError(errors.CodeEmptyTable, path, "", nil)
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.FileError(errors.CodeFileCorrupted, path, err)
	}

	table, err := tableFromRecords(records)
	if err != nil {
		if ce, ok := errors.As(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	return table, nil
}

// ReadXLS reads the first sheet of a legacy binary XLS workbook.
func ReadXLS(path string) (*Table, error) {
	workbook, err := xls.OpenFile(path)
	if err != nil {
		return nil, errors.FileError(errors.CodeFileCorrupted, path, err)
	}

	sheet, err := workbook.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, errors.ParseError(errors.CodeEmptyTable, path, "", err)
	}

	var records [][]string
	for i := 0; i <= int(sheet.GetNumberRows()); i++ {
		row, err := sheet.GetRow(i)
		if err != nil || row == nil {
			continue
		}

		var record []string
		for _, col := range row.GetCols() {
			if col != nil {
				record = append(record, col.GetString())
			} else {
				record = append(record, "")
			}
		}
		records = append(records, record)
	}

	table, err := tableFromRecords(records)
	if err != nil {
		if ce, ok := errors.As(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	return table, nil
}

// tableFromRecords builds a Table from raw rows: the first non-empty
// row is the header, and data rows shorter than the header yield empty
// strings for the missing trailing fields.
func tableFromRecords(records [][]string) (*Table, error) {
	start := 0
	for start < len(records) && rowIsEmpty(records[start]) {
		start++
	}
	if start >= len(records) {
		return nil, errors.New(errors.CategoryParse, errors.CodeMissingHeader, "input has no header row")
	}

	headers := make([]string, len(records[start]))
	for i, h := range records[start] {
		headers[i] = strings.TrimSpace(h)
	}

	table := &Table{Headers: headers}
	for _, record := range records[start+1:] {
		if rowIsEmpty(record) {
			continue
		}

		row := make(Row, len(headers))
		for i, name := range headers {
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func rowIsEmpty(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
