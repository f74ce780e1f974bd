// Package similarity provides the field-level equality and closeness
// predicates used by the matchers: exact and token-overlap company name
// matching, and the schema-agnostic field equality of generic mode.
package similarity

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/mariuscozma11/program-conta/internal/normalize"
)

const (
	// tokenOverlapRatio is the share of the shorter token list that
	// must be found in the longer one for a flexible company match.
	tokenOverlapRatio = 0.7

	// minTokenLength: shorter tokens carry no naming signal and are
	// dropped before overlap counting.
	minTokenLength = 3

	// editSimilarityThreshold is the minimum levenshtein similarity
	// (1 - distance/maxLen) for two generic field values to count as
	// equal.
	editSimilarityThreshold = 0.8

	// minEditLength guards the edit-distance test: values this short
	// produce meaningless similarity ratios.
	minEditLength = 4
)

// companyStopWords are legal-form suffixes and connector words that two
// independently maintained company name fields routinely disagree on.
// Tokens of length <= 2 ("sc", "sa", "si", "de") are dropped by the
// length filter before this set is consulted.
var companyStopWords = map[string]struct{}{
	"srl":        {},
	"pfa":        {},
	"snc":        {},
	"sca":        {},
	"ifn":        {},
	"din":        {},
	"sau":        {},
	"prin":       {},
	"pentru":     {},
	"societate":  {},
	"comerciala": {},
}

// CompanyNamesMatch reports whether two normalized company names refer
// to the same party. Exact equality is tried first; otherwise a
// flexible token-overlap match tolerates abbreviation and legal-suffix
// drift between the two sources.
func CompanyNamesMatch(a, b string) bool {
	na := normalize.CompanyName(a)
	nb := normalize.CompanyName(b)

	if na == nb {
		return true
	}
	return flexibleCompanyMatch(na, nb)
}

// flexibleCompanyMatch tokenizes both normalized names, drops short and
// stop-word tokens, and requires ceil(0.7 x min(tokenCount)) tokens of
// the shorter list to appear in the longer list as substring or
// superstring.
func flexibleCompanyMatch(a, b string) bool {
	ta := companyTokens(a)
	tb := companyTokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return false
	}

	shorter, longer := ta, tb
	if len(tb) < len(ta) {
		shorter, longer = tb, ta
	}

	required := ceilRatio(len(shorter), tokenOverlapRatio)

	found := 0
	for _, tok := range shorter {
		if tokenAppearsIn(tok, longer) {
			found++
			if found >= required {
				return true
			}
		}
	}
	return false
}

// companyTokens splits a normalized company name on whitespace and
// hyphens and filters out short tokens and stop words.
func companyTokens(name string) []string {
	raw := strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-'
	})

	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if len(tok) < minTokenLength {
			continue
		}
		if _, stop := companyStopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// tokenAppearsIn reports whether tok matches any token of the list as
// substring or superstring, which is how abbreviations ("construct" vs
// "constructii") line up across sources.
func tokenAppearsIn(tok string, list []string) bool {
	for _, other := range list {
		if strings.Contains(other, tok) || strings.Contains(tok, other) {
			return true
		}
	}
	return false
}

// ceilRatio returns ceil(n * ratio) without going through math.Ceil's
// float rounding at representable boundaries.
func ceilRatio(n int, ratio float64) int {
	v := float64(n) * ratio
	r := int(v)
	if v > float64(r) {
		r++
	}
	if r < 1 {
		r = 1
	}
	return r
}

// FieldsMatch is the generic-mode field equality predicate. Two raw
// values match when both are empty, their loose normal forms are equal,
// one contains the other, both are numeric and equal within the amount
// epsilon, or they are close in edit distance.
func FieldsMatch(a, b string) bool {
	la := normalize.Loose(a)
	lb := normalize.Loose(b)

	if la == "" && lb == "" {
		return true
	}
	if la == lb {
		return true
	}

	if la != "" && lb != "" && (strings.Contains(la, lb) || strings.Contains(lb, la)) {
		return true
	}

	if da, ok := normalize.ParseAmount(a); ok {
		if db, ok := normalize.ParseAmount(b); ok && normalize.AmountsEqual(da, db) {
			return true
		}
	}

	if len(la) >= minEditLength && len(lb) >= minEditLength {
		return EditSimilarity(la, lb) > editSimilarityThreshold
	}

	return false
}

// EditSimilarity returns the character-level similarity of two strings
// as 1 - levenshtein/maxLen, in [0, 1].
func EditSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1.0
	}

	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(maxLen)
}
