// Package domain defines domain-level errors for the marketdata feature.
package domain

import "errors"

// ErrNoPriceData indicates that no stored bar matches the requested
// (ticker, as-of) selection.
var ErrNoPriceData = errors.New("no price data stored for ticker")
