// Package codec converts between JSON scalars and the text shown in a tree
// row. Decoding is best effort: text that is not a recognised literal is kept
// as a plain string.
package codec

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/oakwood-commons/cardtree/internal/cel"
	"github.com/oakwood-commons/cardtree/pkg/jsondoc"
)

var (
	jsonNumber  = regexp.MustCompile(`^-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?$`)
	leadingZero = regexp.MustCompile(`^-?0[0-9]`)
)

// Decode re-types edited text. JSON number text is returned as json.Number
// with its exact spelling; other literal syntax (quoted strings, true, false,
// null, True, False, None, list, tuple and map literals) is parsed; anything else
// comes back unchanged as a string. Decode never fails.
func Decode(raw string) any {
	if raw == "" {
		return raw
	}
	if jsonNumber.MatchString(raw) {
		return json.Number(raw)
	}
	if leadingZero.MatchString(raw) {
		// codes such as "007" stay text
		return raw
	}
	v, err := cel.ParseLiteral(raw)
	if err != nil {
		return raw
	}
	return v
}

// Encode renders a JSON value as row text. Strings are shown verbatim, null
// as "null", containers as compact JSON.
func Encode(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case *jsondoc.Object, []any:
		b, err := jsondoc.MarshalCompact(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}
