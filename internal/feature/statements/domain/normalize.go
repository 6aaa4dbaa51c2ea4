package domain

import (
	"errors"
	"math"
	"time"

	"findata_backend/internal/feature/statements/domain/entity"
	"findata_backend/internal/shared/fieldmap"
	"findata_backend/internal/shared/scalar"
)

// ErrMissingPeriod is returned when a raw statement row carries no
// recognizable reporting-period field.
var ErrMissingPeriod = errors.New("statement row has no reporting period")

// periodField locates the reporting period in a raw statement row.
var periodField = fieldmap.Field{
	Name:    "period",
	Aliases: []string{"asOfDate", "endDate", "date", "period_end"},
	Default: scalar.Null(),
}

// Normalize maps a raw statement row onto the canonical line-item set for the
// given statement type. Unknown extra fields are dropped. Missing line items
// never fail; each resolves to its per-field default. The only failure mode
// is a present value that cannot be coerced.
func Normalize(rec scalar.RawRecord, t entity.Type) (map[string]scalar.Scalar, error) {
	items := make(map[string]scalar.Scalar, len(lineItems[t])+1)
	for _, f := range lineItems[t] {
		v, err := f.Resolve(rec)
		if err != nil {
			return nil, err
		}
		items[f.Name] = v
	}

	switch t {
	case entity.TypeBalance:
		items[ItemWorkingCapital] = deriveWorkingCapital(items)
	case entity.TypeIncome:
		items[ItemEBIT] = deriveEBIT(items)
	}

	return items, nil
}

// PeriodOf extracts the reporting period from a raw statement row. Accepted
// forms are a timestamp scalar or a YYYY-MM-DD / RFC 3339 text value.
func PeriodOf(rec scalar.RawRecord) (time.Time, error) {
	v, err := periodField.Resolve(rec)
	if err != nil {
		return time.Time{}, err
	}
	switch v.Kind {
	case scalar.KindTime:
		return v.Time, nil
	case scalar.KindText:
		if ts, err := time.Parse("2006-01-02", v.Text); err == nil {
			return ts, nil
		}
		if ts, err := time.Parse(time.RFC3339, v.Text); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, ErrMissingPeriod
}

// deriveWorkingCapital computes current_assets - current_liabilities. If
// either side is unavailable the result is the null variant, not zero.
func deriveWorkingCapital(items map[string]scalar.Scalar) scalar.Scalar {
	ca, okA := items[ItemCurrentAssets].AsFloat()
	cl, okL := items[ItemCurrentLiabilities].AsFloat()
	if !okA || !okL {
		return scalar.Null()
	}
	return scalar.NewFloat(ca - cl)
}

// deriveEBIT prefers a directly reported operating-income figure. When the
// provider omits it, EBIT falls back to net_income + |interest_expense| +
// tax_provision. Interest expense sign varies by provider, hence the absolute
// value. A missing addend propagates null rather than being treated as zero.
func deriveEBIT(items map[string]scalar.Scalar) scalar.Scalar {
	if op := items[ItemOperatingIncome]; !op.IsNull() {
		return op
	}
	ni, okN := items[ItemNetIncome].AsFloat()
	ie, okI := items[ItemInterestExpense].AsFloat()
	tax, okT := items[ItemTaxProvision].AsFloat()
	if !okN || !okI || !okT {
		return scalar.Null()
	}
	return scalar.NewFloat(ni + math.Abs(ie) + tax)
}
