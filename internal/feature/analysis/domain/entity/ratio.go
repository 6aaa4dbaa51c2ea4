// Package entity defines the domain models for the analysis feature.
package entity

// Ratio names in the catalog.
const (
	RatioPE           = "p_e_ratio"
	RatioPB           = "p_b_ratio"
	RatioROEPercent   = "return_on_equity_percent"
	RatioAltmanZScore = "altman_z_score"
)

// Unavailability reason prefixes. A reason is either one of the fixed codes
// or "<prefix>: <field name>".
const (
	ReasonMissingField    = "missing_field"
	ReasonZeroDenominator = "zero_denominator"
	ReasonNoPriceData     = "no_price_data"
)

// Ratio is one computed ratio: either a value, or an unavailability reason.
// Never both.
type Ratio struct {
	Value       *float64 `json:"value,omitempty"`
	Unavailable string   `json:"unavailable,omitempty"`
}

// Available constructs a computed ratio.
func Available(v float64) Ratio {
	return Ratio{Value: &v}
}

// Unavailable constructs a ratio that could not be computed.
func Unavailable(reason string) Ratio {
	return Ratio{Unavailable: reason}
}

// RatioResult is the ratio catalog for one ticker, computed fresh per
// request; it is never persisted. Ratios whose inputs were all present carry
// values; the rest carry per-ratio reasons. A result always contains every
// catalog entry.
type RatioResult struct {
	Ticker string           `json:"ticker"`
	Ratios map[string]Ratio `json:"ratios"`
}
