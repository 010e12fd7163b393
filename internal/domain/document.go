package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

// FieldStoreID is the key under which the store's own identifier is rendered.
// It is assigned by the store and never matched against by clients.
const FieldStoreID = "_id"

// Document is a schema-less record as held by the store.
//
// Values decoded from JSON are normalized: integral numbers become int64,
// other numbers float64, objects Document, arrays []any.
type Document map[string]any

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = CloneValue(v)
	}
	return out
}

// Without returns a deep copy of the document with the given keys removed.
func (d Document) Without(keys ...string) Document {
	out := d.Clone()
	if out == nil {
		out = Document{}
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// StoreID returns the store identifier as a string, or "" when absent.
func (d Document) StoreID() string {
	if s, ok := d[FieldStoreID].(string); ok {
		return s
	}
	return ""
}

// CloneValue deep-copies nested documents and slices; other values are returned as is.
func CloneValue(v any) any {
	switch x := v.(type) {
	case Document:
		return x.Clone()
	case map[string]any:
		return Document(x).Clone()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = CloneValue(e)
		}
		return out
	default:
		return v
	}
}

// DecodeJSON reads a single JSON object from r.
func DecodeJSON(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode json object: %w", err)
	}
	if raw == nil {
		return nil, errors.New("decode json object: null body")
	}
	if dec.More() {
		return nil, errors.New("decode json object: trailing data")
	}
	return FromMap(raw), nil
}

// FromMap converts a generic map (JSON or YAML decoded) into a normalized Document.
func FromMap(m map[string]any) Document {
	out := make(Document, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case int:
		return int64(x)
	case map[string]any:
		return FromMap(x)
	case Document:
		return FromMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}

// Number reports the numeric value of v when v holds any Go numeric type.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Integer reports v as an int64 when it is a number without a fractional part.
func Integer(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	}
	f, ok := Number(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}
