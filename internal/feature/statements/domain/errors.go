package domain

import "errors"

// ErrStatementNotFound indicates that no stored statement matches the
// requested (ticker, type, as-of) selection. Adapters translate their
// store-level not-found condition into this error.
var ErrStatementNotFound = errors.New("statement not found")
