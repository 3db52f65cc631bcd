package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/oakwood-commons/cardtree/pkg/jsondoc"
)

// Export formats.
const (
	JSON = "json"
	YAML = "yaml"
	TOML = "toml"
)

// ValidFormats lists the formats Export accepts.
var ValidFormats = []string{JSON, YAML, TOML}

var (
	// ErrUnknownFormat is returned for a format outside ValidFormats.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrNotTable is returned when a non-object document is exported as TOML.
	ErrNotTable = errors.New("toml output needs an object at the top level")
)

// ExportOptions control Export.
type ExportOptions struct {
	// Indent is the YAML indent width; JSON always uses two spaces.
	Indent int
}

// Export renders a document in the named format.
//
// TOML has no null, so null members and elements are dropped, and tables
// are written with sorted keys.
func Export(doc any, format string, opts ExportOptions) ([]byte, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case JSON, "":
		return jsondoc.Marshal(doc)
	case YAML, "yml":
		return FormatYAML(doc, YAMLFormatOptions{Indent: opts.Indent, LiteralBlockStrings: true})
	case TOML:
		return exportTOML(doc)
	}
	return nil, fmt.Errorf("%q (valid: %s): %w", format, strings.Join(ValidFormats, ", "), ErrUnknownFormat)
}

func exportTOML(doc any) ([]byte, error) {
	m, ok := dropNulls(jsondoc.Plain(doc)).(map[string]any)
	if !ok {
		return nil, ErrNotTable
	}
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode toml: %w", err)
	}
	return buf.Bytes(), nil
}

func dropNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			if e == nil {
				continue
			}
			out[k] = dropNulls(e)
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, e := range t {
			if e == nil {
				continue
			}
			out = append(out, dropNulls(e))
		}
		return out
	}
	return v
}
