// Package response holds one typed read-only view per API response shape.
// Every model wraps the raw JSON mapping and exposes null-safe accessors:
// a field absent from the mapping yields a nil pointer or zero flag, never
// a panic, because the remote API's field presence varies across plans.
package response

import (
	"fmt"
	"strconv"
)

// Raw is a decoded JSON response body.
type Raw map[string]interface{}

// Base carries the fields shared by every response shape.
type Base struct {
	data Raw
}

func newBase(data Raw) Base {
	if data == nil {
		data = Raw{}
	}
	return Base{data: data}
}

// RawData returns the underlying mapping. Callers must treat it as read-only.
func (b Base) RawData() Raw { return b.data }

// Success reports whether the API flagged the request as successful.
func (b Base) Success() bool { return b.boolField("success") }

// RequestID returns the API-assigned request identifier, if present.
func (b Base) RequestID() *string { return b.stringField("request_id") }

// Message returns the API message, if present.
func (b Base) Message() *string { return b.stringField("message") }

// Errors returns the API-reported error strings, if any.
func (b Base) Errors() []string {
	raw, ok := b.data["errors"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			out = append(out, fmt.Sprint(e))
		}
		return out
	case string:
		return []string{v}
	}
	return nil
}

// Field returns an arbitrary raw field, for values no typed accessor covers.
func (b Base) Field(key string) (interface{}, bool) {
	v, ok := b.data[key]
	return v, ok
}

func (b Base) boolField(key string) bool {
	v, ok := b.data[key]
	if !ok {
		return false
	}
	bv, _ := asBool(v)
	return bv
}

func (b Base) boolPtrField(key string) *bool {
	v, ok := b.data[key]
	if !ok {
		return nil
	}
	bv, ok := asBool(v)
	if !ok {
		return nil
	}
	return &bv
}

func (b Base) stringField(key string) *string {
	v, ok := b.data[key]
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// stringFieldNA treats the remote "N/A" placeholder as absent.
func (b Base) stringFieldNA(key string) *string {
	s := b.stringField(key)
	if s == nil || *s == "N/A" {
		return nil
	}
	return s
}

func (b Base) intField(key string) *int {
	v, ok := b.data[key]
	if !ok {
		return nil
	}
	f, ok := asFloat(v)
	if !ok {
		return nil
	}
	n := int(f)
	return &n
}

func (b Base) intFieldDefault(key string, def int) int {
	if n := b.intField(key); n != nil {
		return *n
	}
	return def
}

func (b Base) floatField(key string) *float64 {
	v, ok := b.data[key]
	if !ok {
		return nil
	}
	f, ok := asFloat(v)
	if !ok {
		return nil
	}
	return &f
}

func (b Base) mapField(key string) Raw {
	v, ok := b.data[key]
	if !ok {
		return nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	return Raw(m)
}

func (b Base) sliceField(key string) []interface{} {
	v, ok := b.data[key]
	if !ok {
		return nil
	}
	s, ok := v.([]interface{})
	if !ok {
		return nil
	}
	return s
}

func (b Base) stringSliceField(key string) []string {
	raw := b.sliceField(key)
	if raw == nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

// mapSliceField decodes a list-of-objects field into raw entries.
func (b Base) mapSliceField(key string) []Raw {
	raw := b.sliceField(key)
	if raw == nil {
		return nil
	}
	out := make([]Raw, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(map[string]interface{}); ok {
			out = append(out, Raw(m))
		}
	}
	return out
}

// asFloat coerces the numeric shapes encoding/json and the remote API
// produce: float64, int, or a numeric string.
func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func asBool(v interface{}) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		if b == "true" || b == "1" {
			return true, true
		}
		if b == "false" || b == "0" {
			return false, true
		}
	case float64:
		return b != 0, true
	}
	return false, false
}

// timestampField reads the nested {human, timestamp, iso} shape the API uses
// for first-seen and domain-age data.
type Timestamp struct {
	Human *string
	Unix  *int64
	ISO   *string
}

func (b Base) timestampField(key string) *Timestamp {
	m := b.mapField(key)
	if m == nil {
		return nil
	}
	inner := newBase(m)
	ts := &Timestamp{
		Human: inner.stringField("human"),
		ISO:   inner.stringField("iso"),
	}
	if f := inner.floatField("timestamp"); f != nil {
		u := int64(*f)
		ts.Unix = &u
	}
	return ts
}
