// Package domain defines domain-level errors for the analysis feature.
package domain

import "errors"

// ErrNoStatements indicates that no financial statement is stored at all for
// the requested ticker. This is a distinct, user-actionable condition
// ("fetch it first"), never conflated with a result whose ratios are all
// unavailable.
var ErrNoStatements = errors.New("no financial statements stored for ticker")
