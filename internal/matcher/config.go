// Package matcher implements the record matching algorithms of the
// reconciliation engine.
//
// Two algorithms share the package:
//   - the fixed-schema invoice matcher: exact composite-key pairing
//     followed by a confidence-scored fallback over records sharing an
//     invoice number, followed by residue collection;
//   - the generic matcher: a greedy per-row best-candidate search over
//     user-declared column mappings.
//
// Both resolve left-to-right in input order, first claim wins. Given
// the same inputs and configuration the outcome is fully reproducible.
package matcher

import "fmt"

// MatchKind records which algorithm produced a matched pair.
type MatchKind int

const (
	// KindExactKey is a fixed-schema match on the full composite key.
	KindExactKey MatchKind = iota

	// KindFallback is a fixed-schema match found by the scored
	// invoice-number fallback phase.
	KindFallback

	// KindGeneric is a generic-mode greedy match over column mappings.
	KindGeneric
)

// String returns the string representation of MatchKind
func (k MatchKind) String() string {
	switch k {
	case KindExactKey:
		return "exact-key"
	case KindFallback:
		return "fallback"
	case KindGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// Config holds the scoring weights and acceptance thresholds of both
// matchers. The defaults are the calibrated production values; change
// them only with a matching change to the acceptance tests.
type Config struct {
	// DateEqualScore is awarded when the normalized issue dates are
	// equal; DateCloseScore when they are within DateWindowDays.
	DateEqualScore float64 `json:"date_equal_score"`
	DateCloseScore float64 `json:"date_close_score"`
	DateWindowDays int     `json:"date_window_days"`

	// AmountEqualScore is awarded when the VAT base amounts are equal
	// within the fixed epsilon; AmountCloseScore when they differ by at
	// most AmountWindowPercent of the larger amount.
	AmountEqualScore    float64 `json:"amount_equal_score"`
	AmountCloseScore    float64 `json:"amount_close_score"`
	AmountWindowPercent float64 `json:"amount_window_percent"`

	// VATRateScore is awarded when the VAT rates are numerically equal.
	VATRateScore float64 `json:"vat_rate_score"`

	// FallbackMinScore is the exclusive acceptance threshold of the
	// fallback phase: a candidate is claimed only with a score
	// strictly above it.
	FallbackMinScore float64 `json:"fallback_min_score"`

	// GenericMinScore is the inclusive acceptance threshold of generic
	// mode: matching-mapping ratio >= this value is accepted.
	GenericMinScore float64 `json:"generic_min_score"`
}

// DefaultConfig returns the standard matcher configuration.
func DefaultConfig() *Config {
	return &Config{
		DateEqualScore:      0.4,
		DateCloseScore:      0.2,
		DateWindowDays:      7,
		AmountEqualScore:    0.4,
		AmountCloseScore:    0.2,
		AmountWindowPercent: 5.0,
		VATRateScore:        0.2,
		FallbackMinScore:    0.5,
		GenericMinScore:     0.5,
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.DateWindowDays < 0 {
		return fmt.Errorf("date window days cannot be negative: %d", c.DateWindowDays)
	}

	if c.AmountWindowPercent < 0 || c.AmountWindowPercent > 100 {
		return fmt.Errorf("amount window percent must be between 0 and 100: %f", c.AmountWindowPercent)
	}

	for name, v := range map[string]float64{
		"date_equal_score":   c.DateEqualScore,
		"date_close_score":   c.DateCloseScore,
		"amount_equal_score": c.AmountEqualScore,
		"amount_close_score": c.AmountCloseScore,
		"vat_rate_score":     c.VATRateScore,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be between 0.0 and 1.0: %f", name, v)
		}
	}

	if c.FallbackMinScore < 0 || c.FallbackMinScore > 1 {
		return fmt.Errorf("fallback min score must be between 0.0 and 1.0: %f", c.FallbackMinScore)
	}

	if c.GenericMinScore < 0 || c.GenericMinScore > 1 {
		return fmt.Errorf("generic min score must be between 0.0 and 1.0: %f", c.GenericMinScore)
	}

	maxFallback := c.DateEqualScore + c.AmountEqualScore + c.VATRateScore
	if c.FallbackMinScore >= maxFallback {
		return fmt.Errorf("fallback min score %f is unreachable: maximum attainable score is %f",
			c.FallbackMinScore, maxFallback)
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
