package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// LooseFloat decodes a value typed by a spreadsheet: a JSON number or a
// numeric string. Null, blank and non-numeric values leave Val nil.
// Present reports whether the key carried any non-null value.
type LooseFloat struct {
	Val     *float64
	Present bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *LooseFloat) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = LooseFloat{Present: v != nil}
	if n, ok := ParseNumber(v); ok {
		f.Val = &n
	}
	return nil
}

// Or returns the value, or def when it is unset.
func (f LooseFloat) Or(def float64) float64 {
	if f.Val == nil {
		return def
	}
	return *f.Val
}

// ParseNumber reads a numeric cell value. Strings are trimmed; blank strings
// are not numbers.
func ParseNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

// LooseString decodes a JSON string, number or boolean as text. Null
// decodes as "".
type LooseString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *LooseString) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		*s = LooseString(x)
	case float64:
		*s = LooseString(strconv.FormatFloat(x, 'f', -1, 64))
	case bool:
		*s = LooseString(strconv.FormatBool(x))
	default:
		*s = ""
	}
	return nil
}

// Blank reports whether s holds only whitespace.
func (s LooseString) Blank() bool {
	return strings.TrimSpace(string(s)) == ""
}

// LooseBool decodes a JSON boolean or the strings "true"/"false" in any case.
// Present reports whether the key carried any non-null value.
type LooseBool struct {
	Val     bool
	Present bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *LooseBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = LooseBool{Present: v != nil}
	switch x := v.(type) {
	case bool:
		b.Val = x
	case string:
		b.Val, _ = strconv.ParseBool(strings.TrimSpace(x))
	}
	return nil
}
