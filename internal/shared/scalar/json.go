package scalar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// MarshalJSON renders the scalar as a plain JSON value: null, number, string
// or array. Timestamps serialize as RFC 3339 strings, matching how statement
// documents are stored in the statements table.
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindInt:
		return json.Marshal(s.Int)
	case KindFloat:
		return json.Marshal(s.Float)
	case KindText:
		return json.Marshal(s.Text)
	case KindTime:
		return json.Marshal(s.Time.UTC().Format(time.RFC3339))
	case KindList:
		return json.Marshal(s.List)
	default:
		return nil, fmt.Errorf("marshal scalar: unknown kind %d", s.Kind)
	}
}

// UnmarshalJSON parses a plain JSON value back into a scalar. Numbers are
// decoded with UseNumber and re-coerced, so an integral float stored as a
// bare number comes back as an integer; Equal bridges that by comparing
// numerics by value. Strings that parse as RFC 3339 become timestamps again.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}

	switch x := v.(type) {
	case string:
		if t, err := time.Parse(time.RFC3339, x); err == nil {
			*s = NewTime(t)
			return nil
		}
	}

	out, err := Coerce(v)
	if err != nil {
		return err
	}
	*s = out
	return nil
}
