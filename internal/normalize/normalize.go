// Package normalize turns the heterogeneous field encodings found in
// real invoice exports into comparable canonical forms.
//
// Every function here is pure and total: unparsable input degrades to a
// defined fallback (the trimmed original for dates, zero for amounts)
// instead of failing, so that two malformed-but-identical values still
// compare equal and a malformed value surfaces as a difference rather
// than an error.
package normalize

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// amountEpsilon is the fixed tolerance for amount equality. Spreadsheet
// sources introduce rounding noise below one cent; anything at or above
// it is a real difference.
var amountEpsilon = decimal.New(1, -2) // 0.01

// isoDateFormats are the ISO-like layouts accepted before falling back
// to locale numeric parsing.
var isoDateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Date normalizes a date string to canonical YYYY-MM-DD form. It
// accepts ISO-like strings and day-first locale numeric dates with "/",
// "." or "-" separators. Input that parses as neither is returned
// trimmed, unchanged.
func Date(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}

	for _, layout := range isoDateFormats {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("2006-01-02")
		}
	}

	if t, ok := parseLocaleDate(trimmed); ok {
		return t.Format("2006-01-02")
	}

	return trimmed
}

// parseLocaleDate parses a day/month/year numeric date with "/", "." or
// "-" separators. Two-digit years are taken as 2000-based.
func parseLocaleDate(s string) (time.Time, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '.' || r == '-'
	})
	if len(fields) != 3 {
		return time.Time{}, false
	}

	day, err1 := strconv.Atoi(strings.TrimSpace(fields[0]))
	month, err2 := strconv.Atoi(strings.TrimSpace(fields[1]))
	year, err3 := strconv.Atoi(strings.TrimSpace(fields[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}

	if len(strings.TrimSpace(fields[2])) == 2 {
		year += 2000
	}

	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1000 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject overflowed dates such as 31.02: time.Date silently rolls
	// them into the next month.
	if t.Day() != day || t.Month() != time.Month(month) || t.Year() != year {
		return time.Time{}, false
	}

	return t, true
}

// DayDiff returns the absolute difference in calendar days between two
// normalized dates. The second return value is false when either input
// is not a canonical calendar date (for example a fallback original
// string), in which case no day distance is defined.
func DayDiff(a, b string) (int, bool) {
	ta, err := time.Parse("2006-01-02", a)
	if err != nil {
		return 0, false
	}
	tb, err := time.Parse("2006-01-02", b)
	if err != nil {
		return 0, false
	}

	// Both values are midnight UTC, so the duration is an exact whole
	// number of days regardless of host timezone.
	days := int(ta.Sub(tb).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days, true
}

// Amount parses a numeric string into a decimal, accepting a decimal
// comma in place of the point. Unparsable input normalizes to zero.
func Amount(s string) decimal.Decimal {
	d, _ := ParseAmount(s)
	return d
}

// ParseAmount is Amount with an explicit success flag, for callers that
// must distinguish a real zero from an unparsable value.
func ParseAmount(s string) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Zero, false
	}

	trimmed = strings.ReplaceAll(trimmed, " ", "")
	trimmed = strings.ReplaceAll(trimmed, ",", ".")

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// AmountsEqual reports whether two amounts are equal within the fixed
// epsilon: |a-b| < 0.01.
func AmountsEqual(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThan(amountEpsilon)
}

// AmountStringsEqual normalizes both strings and compares them within
// the fixed epsilon.
func AmountStringsEqual(a, b string) bool {
	return AmountsEqual(Amount(a), Amount(b))
}

// TaxID normalizes a fiscal identification code: uppercase with all
// whitespace stripped. Country prefix stripping is a reader concern and
// happens before this runs.
func TaxID(s string) string {
	return strings.ToUpper(stripSpaces(s))
}

// InvoiceNumber normalizes an invoice number the same way as a tax id:
// uppercase, no whitespace.
func InvoiceNumber(s string) string {
	return strings.ToUpper(stripSpaces(s))
}

// CompanyName normalizes a company name: lowercase, all "." removed,
// runs of whitespace collapsed to a single space, trimmed.
func CompanyName(s string) string {
	lowered := strings.ToLower(strings.ReplaceAll(s, ".", ""))
	return strings.Join(strings.Fields(lowered), " ")
}

// Loose lowercases, trims and collapses internal whitespace. It is the
// generic-mode normal form applied to arbitrary column values.
func Loose(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
