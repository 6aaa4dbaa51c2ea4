// Package entity defines the domain models for the statements feature.
package entity

import (
	"time"

	"findata_backend/internal/shared/scalar"
)

// Type identifies which financial statement a record belongs to.
type Type string

const (
	TypeIncome   Type = "income"
	TypeBalance  Type = "balance"
	TypeCashflow Type = "cashflow"
)

// Types lists every statement type fetched for a ticker.
var Types = []Type{TypeIncome, TypeBalance, TypeCashflow}

// Valid reports whether t is a known statement type.
func (t Type) Valid() bool {
	switch t {
	case TypeIncome, TypeBalance, TypeCashflow:
		return true
	}
	return false
}

// PeriodType distinguishes annual from quarterly reporting periods.
type PeriodType string

const (
	PeriodAnnual    PeriodType = "annual"
	PeriodQuarterly PeriodType = "quarterly"
)

// Statement is a fully normalized financial statement for one reporting
// period. Identity is (Ticker, Type, Period, PeriodType); re-ingesting the
// same identity overwrites Items in place, never duplicates the record.
type Statement struct {
	Ticker     string
	Type       Type
	Period     time.Time
	PeriodType PeriodType
	// Items maps canonical line-item names to canonical scalars. Absent line
	// items are present with the null variant (or the item's default), so
	// downstream code never distinguishes "missing key" from "null value".
	Items map[string]scalar.Scalar
}

// Item returns the named line item, or the null variant when absent.
func (s Statement) Item(name string) scalar.Scalar {
	if v, ok := s.Items[name]; ok {
		return v
	}
	return scalar.Null()
}

// ItemsEqual reports whether two statements carry identical line items.
func (s Statement) ItemsEqual(o Statement) bool {
	if len(s.Items) != len(o.Items) {
		return false
	}
	for k, v := range s.Items {
		ov, ok := o.Items[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
