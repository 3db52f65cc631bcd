package jsondoc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"sort"
)

// ErrTrailingData is returned by Parse when input continues after the first value.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// Parse decodes a single JSON value. Objects become *Object with member order
// preserved and numbers are kept as json.Number.
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, ErrTrailingData
	}
	return v, nil
}

func parseValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject(4)
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				val, err := parseValue(dec)
				if err != nil {
					return nil, fmt.Errorf("member %q: %w", key, err)
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			list := make([]any, 0)
			for dec.More() {
				val, err := parseValue(dec)
				if err != nil {
					return nil, fmt.Errorf("element [%d]: %w", len(list), err)
				}
				list = append(list, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	default:
		// string, json.Number, bool, nil
		return t, nil
	}
}

// Marshal renders v as pretty-printed JSON with two-space indentation.
// Non-ASCII text and HTML characters are written unescaped.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalCompact renders v on a single line without HTML escaping.
func MarshalCompact(v any) ([]byte, error) {
	return encodeCompact(v)
}

// Plain converts ordered objects into map[string]any recursively and numbers
// into int64 or float64, for consumers that only understand plain Go values.
func Plain(v any) any {
	switch t := v.(type) {
	case *Object:
		out := make(map[string]any, t.Len())
		for _, m := range t.members {
			out[m.Key] = Plain(m.Value)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Plain(e)
		}
		return out
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	default:
		return v
	}
}

// FromMap converts plain maps into objects with keys in sorted order,
// recursing into nested maps and slices.
func FromMap(m map[string]any) *Object {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	obj := NewObject(len(keys))
	for _, k := range keys {
		obj.Set(k, fromPlain(m[k]))
	}
	return obj
}

func fromPlain(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return FromMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = fromPlain(e)
		}
		return out
	}
	return v
}

// Equal reports structural equality. Object member order is significant;
// numbers compare by value regardless of representation.
func Equal(a, b any) bool {
	switch x := a.(type) {
	case *Object:
		y, ok := b.(*Object)
		if !ok || x.Len() != y.Len() {
			return false
		}
		for i, m := range x.members {
			n := y.members[i]
			if m.Key != n.Key || !Equal(m.Value, n.Value) {
				return false
			}
		}
		return true
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	}

	if na, ok := number(a); ok {
		nb, ok := number(b)
		if !ok {
			return false
		}
		if isFloat(a) || isFloat(b) {
			fa, _ := na.Float64()
			fb, _ := nb.Float64()
			return fa == fb
		}
		return na.Cmp(nb) == 0
	}
	return a == b
}

func isFloat(v any) bool {
	_, ok := v.(float64)
	return ok
}

func number(v any) (*big.Float, bool) {
	switch t := v.(type) {
	case json.Number:
		f, _, err := big.ParseFloat(t.String(), 10, 128, big.ToNearestEven)
		return f, err == nil
	case int:
		return new(big.Float).SetInt64(int64(t)), true
	case int64:
		return new(big.Float).SetInt64(t), true
	case uint64:
		return new(big.Float).SetUint64(t), true
	case float64:
		return big.NewFloat(t), true
	}
	return nil, false
}
