package tree

import (
	"fmt"
	"strconv"
	"strings"
)

type segment struct {
	text    string
	bracket bool
	quoted  bool
}

// parsePath splits a path into steps, handling dot and bracket notation.
// Examples: "sections[0].cards" -> [sections, 0, cards]
//
//	`cards.[1]["Area Bruta:"]` -> [cards, 1, "Area Bruta:"]
func parsePath(path string) ([]segment, error) {
	var segs []segment
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			segs = append(segs, segment{text: current.String()})
			current.Reset()
		}
	}

	for i := 0; i < len(path); i++ {
		ch := path[i]
		switch ch {
		case '.':
			flush()
		case '[':
			flush()
			j := i + 1
			if j < len(path) && path[j] == '"' {
				// scan to the closing quote, honoring escapes
				k := j + 1
				for k < len(path) && path[k] != '"' {
					if path[k] == '\\' {
						k++
					}
					k++
				}
				if k+1 >= len(path) || path[k+1] != ']' {
					return nil, fmt.Errorf("unterminated quoted key at offset %d", i)
				}
				key, err := strconv.Unquote(path[j : k+1])
				if err != nil {
					return nil, fmt.Errorf("bad quoted key at offset %d: %w", i, err)
				}
				segs = append(segs, segment{text: key, bracket: true, quoted: true})
				i = k + 1
				continue
			}
			for j < len(path) && path[j] != ']' {
				j++
			}
			if j >= len(path) {
				return nil, fmt.Errorf("missing ']' at offset %d", i)
			}
			segs = append(segs, segment{text: path[i+1 : j], bracket: true})
			i = j
		default:
			current.WriteByte(ch)
		}
	}
	flush()
	return segs, nil
}

// Resolve finds the node addressed by path, as produced by Node.Path.
// Numeric segments address "[N]" children; quoted segments match keys
// verbatim. The empty path is the root.
func (t *Tree) Resolve(path string) (*Node, error) {
	segs, err := parsePath(strings.TrimSpace(path))
	if err != nil {
		return nil, err
	}
	cur := t.root
	for _, s := range segs {
		next := step(cur, s)
		if next == nil {
			return nil, fmt.Errorf("%q under %q: %w", s.text, cur.Path(), ErrPathNotFound)
		}
		cur = next
	}
	return cur, nil
}

func step(n *Node, s segment) *Node {
	if s.quoted {
		return n.ChildByKey(s.text)
	}
	if _, err := strconv.Atoi(s.text); err == nil {
		if c := n.ChildByKey("[" + s.text + "]"); c != nil {
			return c
		}
		if s.bracket {
			return nil
		}
	}
	return n.ChildByKey(s.text)
}
