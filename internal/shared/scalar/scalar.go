// Package scalar defines the canonical scalar types allowed past the
// normalization boundary and the coercion of provider-native values into them.
//
// External data sources hand us payloads whose field values may be native
// integers, floats, arbitrary-precision decimals, strings, timestamps,
// null-sentinels or nested arrays. Nothing reaches storage or ratio
// computation without passing through Coerce first.
package scalar

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnsupportedType is returned when a provider value cannot be coerced into
// a canonical scalar. Callers must treat this as a typed failure for the
// affected field; values are never silently stringified.
var ErrUnsupportedType = errors.New("unsupported provider value type")

// RawRecord is an opaque provider payload: field name to provider-native
// value. It is ephemeral and is consumed exactly once by coercion.
type RawRecord map[string]any

// Kind identifies one of the canonical scalar kinds.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindTime
	KindList
)

// String returns the kind name for logs and error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindTime:
		return "time"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Scalar is a coerced field value. The zero value is the null variant.
type Scalar struct {
	Kind  Kind
	Int   int64
	Float float64
	Text  string
	Time  time.Time
	List  []Scalar
}

// Null returns the null variant.
func Null() Scalar { return Scalar{} }

// NewInt returns a canonical integer scalar.
func NewInt(v int64) Scalar { return Scalar{Kind: KindInt, Int: v} }

// NewFloat returns a canonical float scalar.
func NewFloat(v float64) Scalar { return Scalar{Kind: KindFloat, Float: v} }

// NewText returns a canonical text scalar.
func NewText(v string) Scalar { return Scalar{Kind: KindText, Text: v} }

// NewTime returns a canonical timestamp scalar.
func NewTime(v time.Time) Scalar { return Scalar{Kind: KindTime, Time: v} }

// NewList returns a canonical list scalar.
func NewList(vs []Scalar) Scalar { return Scalar{Kind: KindList, List: vs} }

// IsNull reports whether the scalar is the null variant.
func (s Scalar) IsNull() bool { return s.Kind == KindNull }

// AsFloat returns the numeric value as a float64. ok is false for any
// non-numeric kind, including null.
func (s Scalar) AsFloat() (v float64, ok bool) {
	switch s.Kind {
	case KindInt:
		return float64(s.Int), true
	case KindFloat:
		return s.Float, true
	default:
		return 0, false
	}
}

// Equal reports whether two scalars hold the same canonical value. Integer
// and float scalars compare numerically: the plain JSON document form cannot
// distinguish an integral float from an integer, so a stored 200.0 must still
// equal the 200 that comes back out.
func (s Scalar) Equal(o Scalar) bool {
	if s.Kind != o.Kind {
		sf, okS := s.AsFloat()
		of, okO := o.AsFloat()
		return okS && okO && sf == of
	}
	switch s.Kind {
	case KindNull:
		return true
	case KindInt:
		return s.Int == o.Int
	case KindFloat:
		return s.Float == o.Float
	case KindText:
		return s.Text == o.Text
	case KindTime:
		return s.Time.Equal(o.Time)
	case KindList:
		if len(s.List) != len(o.List) {
			return false
		}
		for i := range s.List {
			if !s.List[i].Equal(o.List[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders the scalar as plain text. Numeric kinds render with no type
// decoration whatsoever, so a coerced 224.67 prints exactly "224.67".
func (s Scalar) String() string {
	switch s.Kind {
	case KindNull:
		return "null"
	case KindInt:
		return strconv.FormatInt(s.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(s.Float, 'g', -1, 64)
	case KindText:
		return s.Text
	case KindTime:
		return s.Time.UTC().Format(time.RFC3339)
	case KindList:
		parts := make([]string, 0, len(s.List))
		for _, e := range s.List {
			parts = append(parts, e.String())
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return ""
	}
}

// nullSentinels are provider strings meaning "no value". They coerce to the
// null variant, never to empty text.
var nullSentinels = map[string]struct{}{
	"":     {},
	"null": {},
	"nan":  {},
	"none": {},
	"n/a":  {},
	"-":    {},
}

// Coerce converts a provider-native value into a canonical scalar.
//
// Missing values (nil, NaN, ±Inf, known textual sentinels) become the null
// variant unconditionally. Integral wrappers become integers, floating
// wrappers become floats, arrays are coerced element-wise. Any type outside
// the canonical set fails with ErrUnsupportedType. Pure; no side effects.
func Coerce(v any) (Scalar, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Scalar:
		return x, nil
	case int:
		return NewInt(int64(x)), nil
	case int8:
		return NewInt(int64(x)), nil
	case int16:
		return NewInt(int64(x)), nil
	case int32:
		return NewInt(int64(x)), nil
	case int64:
		return NewInt(x), nil
	case uint:
		return NewInt(int64(x)), nil
	case uint8:
		return NewInt(int64(x)), nil
	case uint16:
		return NewInt(int64(x)), nil
	case uint32:
		return NewInt(int64(x)), nil
	case uint64:
		if x > math.MaxInt64 {
			return Scalar{}, fmt.Errorf("%w: uint64 %d overflows int64", ErrUnsupportedType, x)
		}
		return NewInt(int64(x)), nil
	case float32:
		return coerceFloat(float64(x)), nil
	case float64:
		return coerceFloat(x), nil
	case json.Number:
		return coerceNumber(x)
	case decimal.Decimal:
		return coerceDecimal(x), nil
	case string:
		if _, ok := nullSentinels[strings.ToLower(strings.TrimSpace(x))]; ok {
			return Null(), nil
		}
		return NewText(x), nil
	case time.Time:
		if x.IsZero() {
			return Null(), nil
		}
		return NewTime(x), nil
	case []any:
		list := make([]Scalar, 0, len(x))
		for i, e := range x {
			s, err := Coerce(e)
			if err != nil {
				return Scalar{}, fmt.Errorf("element %d: %w", i, err)
			}
			list = append(list, s)
		}
		return NewList(list), nil
	default:
		return Scalar{}, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

func coerceFloat(f float64) Scalar {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	return NewFloat(f)
}

// coerceNumber parses a json.Number through shopspring/decimal so that
// arbitrary-precision provider decimals keep their exact value instead of
// going through a lossy string detour.
func coerceNumber(n json.Number) (Scalar, error) {
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return Scalar{}, fmt.Errorf("%w: malformed number %q", ErrUnsupportedType, n.String())
	}
	return coerceDecimal(d), nil
}

func coerceDecimal(d decimal.Decimal) Scalar {
	if d.IsInteger() {
		if i, ok := int64FromDecimal(d); ok {
			return NewInt(i)
		}
	}
	return NewFloat(d.InexactFloat64())
}

func int64FromDecimal(d decimal.Decimal) (int64, bool) {
	bi := d.BigInt()
	if !bi.IsInt64() {
		return 0, false
	}
	return bi.Int64(), true
}
