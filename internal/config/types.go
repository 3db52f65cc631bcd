// Package config loads cardtree settings: the embedded defaults with an
// optional user file laid over them.
package config

import (
	"github.com/oakwood-commons/cardtree/pkg/editor"
	"github.com/oakwood-commons/cardtree/pkg/filter"
	"github.com/oakwood-commons/cardtree/pkg/tree"
)

// Color modes for Output.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the merged configuration.
type Config struct {
	Details []tree.DetailsBlock `yaml:"details" json:"details"`
	Roles   editor.Roles        `yaml:"roles" json:"roles"`
	Filter  filter.Options      `yaml:"filter" json:"filter"`
	Output  Output              `yaml:"output" json:"output"`
}

// Output controls rendering.
type Output struct {
	Indent      int    `yaml:"indent" json:"indent"`
	Color       string `yaml:"color" json:"color"`
	MaxValueLen int    `yaml:"max_value_len" json:"max_value_len"`
}

// EditorOptions returns the editor options the configuration implies.
func (c Config) EditorOptions() []editor.Option {
	return []editor.Option{
		editor.WithDetails(c.Details...),
		editor.WithRoles(c.Roles),
		editor.WithFilter(c.Filter),
	}
}
