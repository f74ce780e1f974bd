// Package errors defines the application error type shared by the
// readers, the CLI and the reporters. The reconciliation engine itself
// never fails and never produces these; they describe problems around
// it: unreadable files, malformed tables, bad configuration.
package errors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Category groups errors by the subsystem that raised them.
type Category string

const (
	CategoryFile      Category = "file"
	CategoryParse     Category = "parse"
	CategoryConfig    Category = "config"
	CategoryReconcile Category = "reconcile"
	CategoryReport    Category = "report"
)

// Code identifies a specific failure within a category.
type Code string

const (
	CodeFileNotFound      Code = "file_not_found"
	CodeUnsupportedFormat Code = "unsupported_format"
	CodeFileCorrupted     Code = "file_corrupted"

	CodeMissingHeader Code = "missing_header"
	CodeMissingColumn Code = "missing_column"
	CodeEmptyTable    Code = "empty_table"

	CodeInvalidMapping Code = "invalid_mapping"
	CodeInvalidConfig  Code = "invalid_config"

	CodeWriteFailed Code = "write_failed"
)

// ContaError is the application error type: categorized, with an
// optional suggestion for the operator and a context map enriching log
// output.
type ContaError struct {
	Category   Category               `json:"category"`
	Code       Code                   `json:"code"`
	Message    string                 `json:"message"`
	Suggestion string                 `json:"suggestion,omitempty"`
	Context    map[string]interface{} `json:"context,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace errors.StackTrace      `json:"-"`
}

// Error implements the error interface
func (e *ContaError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *ContaError) Unwrap() error {
	return e.Cause
}

// ExitCode maps the error category to a process exit code for the CLI.
func (e *ContaError) ExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse:
		return 3
	case CategoryConfig:
		return 4
	case CategoryReconcile, CategoryReport:
		return 5
	default:
		return 1
	}
}

// WithSuggestion attaches an operator-facing hint.
func (e *ContaError) WithSuggestion(s string) *ContaError {
	e.Suggestion = s
	return e
}

// WithContext attaches one key/value pair of diagnostic context.
func (e *ContaError) WithContext(key string, value interface{}) *ContaError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// New creates a ContaError carrying the call site's stack trace.
func New(category Category, code Code, message string) *ContaError {
	return &ContaError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Newf is New with formatting.
func Newf(category Category, code Code, format string, args ...interface{}) *ContaError {
	return New(category, code, fmt.Sprintf(format, args...))
}

// Wrap annotates an existing error with category, code and message.
// Wrapping nil returns nil.
func Wrap(err error, category Category, code Code, message string) *ContaError {
	if err == nil {
		return nil
	}

	return &ContaError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// FileError builds a file-access error for the given path.
func FileError(code Code, path string, err error) *ContaError {
	var message, suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check that the path is correct and the file exists"
	case CodeUnsupportedFormat:
		message = fmt.Sprintf("unsupported file format: %s", path)
		suggestion = "supported formats are .csv, .xlsx and .xls"
	case CodeFileCorrupted:
		message = fmt.Sprintf("file could not be decoded: %s", path)
		suggestion = "verify the file opens in a spreadsheet application"
	default:
		message = fmt.Sprintf("file error: %s", path)
	}

	result := Wrap(err, CategoryFile, code, message)
	if result == nil {
		result = New(CategoryFile, code, message)
	}
	return result.WithSuggestion(suggestion).WithContext("path", path)
}

// ParseError builds a table-shape error for the given file.
func ParseError(code Code, path string, detail string, err error) *ContaError {
	var message, suggestion string

	switch code {
	case CodeMissingHeader:
		message = fmt.Sprintf("no header row in %s", path)
		suggestion = "the first row must name the columns"
	case CodeMissingColumn:
		message = fmt.Sprintf("missing column %q in %s", detail, path)
		suggestion = "check the column layout against the file's header row"
	case CodeEmptyTable:
		message = fmt.Sprintf("no data rows in %s", path)
		suggestion = "the file contains a header but no records"
	default:
		message = fmt.Sprintf("parse error in %s: %s", path, detail)
	}

	result := Wrap(err, CategoryParse, code, message)
	if result == nil {
		result = New(CategoryParse, code, message)
	}
	return result.WithSuggestion(suggestion).WithContext("path", path)
}

// ConfigError builds a configuration error for the given setting.
func ConfigError(code Code, setting string, err error) *ContaError {
	message := fmt.Sprintf("invalid configuration for %s", setting)
	if code == CodeInvalidMapping {
		message = fmt.Sprintf("invalid column mapping: %s", setting)
	}

	result := Wrap(err, CategoryConfig, code, message)
	if result == nil {
		result = New(CategoryConfig, code, message)
	}
	return result.WithContext("setting", setting)
}

// As extracts a ContaError from an error chain.
func As(err error) (*ContaError, bool) {
	var ce *ContaError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// ExitCode returns the exit code for any error: ContaErrors map by
// category, everything else is 1, nil is 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if ce, ok := As(err); ok {
		return ce.ExitCode()
	}
	return 1
}

// FormatContext renders the context map for log output with keys in
// sorted order.
func (e *ContaError) FormatContext() string {
	if len(e.Context) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.Context[k]))
	}
	return strings.Join(parts, " ")
}
