// Package fieldmap resolves provider-specific field names against a raw
// payload. Providers name the same line item differently across versions and
// reporting periods; each canonical field carries an ordered alias list and a
// per-field default, and lookups never trust a key to exist.
package fieldmap

import (
	"fmt"

	"findata_backend/internal/shared/scalar"
)

// Field is one canonical field with its known provider naming variants.
type Field struct {
	// Name is the canonical field name, always tried first.
	Name string
	// Aliases are provider variants, tried in order after Name.
	Aliases []string
	// Default is returned when every candidate key is absent or null.
	// Additive line items conventionally default to integer 0; anything that
	// must not be silently zeroed (denominators, prices, share counts)
	// defaults to the null variant.
	Default scalar.Scalar
}

// Resolve returns the coerced value of the first candidate key whose value is
// present and not null. A present value that fails coercion is an error for
// this field; exhausting all candidates yields the field's default.
func (f Field) Resolve(rec scalar.RawRecord) (scalar.Scalar, error) {
	for _, key := range f.keys() {
		raw, ok := rec[key]
		if !ok {
			continue
		}
		v, err := scalar.Coerce(raw)
		if err != nil {
			return scalar.Scalar{}, fmt.Errorf("field %s (key %q): %w", f.Name, key, err)
		}
		if v.IsNull() {
			continue
		}
		return v, nil
	}
	return f.Default, nil
}

func (f Field) keys() []string {
	keys := make([]string, 0, len(f.Aliases)+1)
	keys = append(keys, f.Name)
	keys = append(keys, f.Aliases...)
	return keys
}
