package tree

import (
	"fmt"
	"strings"
)

// Property names of the two details blocks in the catalog schema.
const (
	DetailsLeft  = "detailsLeft"
	DetailsRight = "detailsRight"
)

// DetailsBlock describes an object property holding newline-delimited lines
// that the tree shows as one labeled row per line. Labels are in canonical
// order; line i gets Labels[i].
type DetailsBlock struct {
	Property string   `yaml:"property" json:"property"`
	Labels   []string `yaml:"labels" json:"labels"`
}

var (
	defaultLeftLabels = []string{
		"Area Bruta Privativa:",
		"Area Total do Lote:",
		"Quartos:",
		"Piso:",
		"Elevador:",
		"Carr. Carros Eletricos:",
	}
	defaultRightLabels = []string{
		"Area Bruta:",
		"Area Util:",
		"Ano de Construção:",
		"Casas de Banho:",
		"Estacionamento:",
		"Eficiência Energética:",
	}
)

// DefaultDetails returns the detailsLeft and detailsRight blocks of the
// property catalog.
func DefaultDetails() []DetailsBlock {
	return []DetailsBlock{
		{Property: DetailsLeft, Labels: append([]string(nil), defaultLeftLabels...)},
		{Property: DetailsRight, Labels: append([]string(nil), defaultRightLabels...)},
	}
}

// ValidateDetails checks that property names are set and unique and that no
// label belongs to more than one block.
func ValidateDetails(blocks []DetailsBlock) error {
	props := make(map[string]bool, len(blocks))
	owner := make(map[string]string)
	for _, b := range blocks {
		if b.Property == "" {
			return fmt.Errorf("details block has no property name")
		}
		if props[b.Property] {
			return fmt.Errorf("details property %q is declared twice", b.Property)
		}
		props[b.Property] = true
		for _, l := range b.Labels {
			if l == "" {
				return fmt.Errorf("details property %q has an empty label", b.Property)
			}
			if IsIndexLabel(l) {
				return fmt.Errorf("details label %q looks like a list index", l)
			}
			if prev, ok := owner[l]; ok {
				return fmt.Errorf("details label %q is used by both %q and %q", l, prev, b.Property)
			}
			owner[l] = b.Property
		}
	}
	return nil
}

// detailLines returns the lines of a details property value. Only strings
// and arrays qualify; ok is false for any other value.
func detailLines(v any) (lines []any, ok bool) {
	switch t := v.(type) {
	case string:
		for _, l := range splitLines(t) {
			lines = append(lines, l)
		}
		return lines, true
	case []any:
		return t, true
	}
	return nil, false
}

// splitLines splits on \n, \r\n and \r; a trailing line break does not start
// an extra empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// detailLabel returns the label for line i of block b.
func detailLabel(b DetailsBlock, i int) string {
	if i < len(b.Labels) {
		return b.Labels[i]
	}
	return IndexLabel(i)
}

// detailRows collects the rows of one details block during serialization.
type detailRows struct {
	labeled  map[string]string
	overflow []string
}

func (r *detailRows) add(n *Node) {
	if IsIndexLabel(n.key) {
		r.overflow = append(r.overflow, n.value)
		return
	}
	r.labeled[n.key] = n.value
}

// joinDetails recombines collected lines: labeled lines in canonical label
// order, then overflow lines in row order.
func joinDetails(b DetailsBlock, rows *detailRows) string {
	parts := make([]string, 0, len(rows.labeled)+len(rows.overflow))
	for _, l := range b.Labels {
		if text, ok := rows.labeled[l]; ok {
			parts = append(parts, text)
		}
	}
	parts = append(parts, rows.overflow...)
	return strings.Join(parts, "\n")
}
