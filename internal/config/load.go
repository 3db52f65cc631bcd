package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/cardtree/pkg/settings"
	"github.com/oakwood-commons/cardtree/pkg/tree"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// FileName is the config file looked up under the XDG config directory.
const FileName = "config.yaml"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// DefaultYAML returns a copy of the embedded default config.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default decodes the embedded default config.
func Default() (Config, error) {
	return Merge(DefaultYAML(), nil)
}

// Load merges the file at path over the embedded defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Merge(DefaultYAML(), data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Merge decodes base, lays overlay over it and validates the result.
// Fields absent from overlay keep their base value; sequences are replaced.
// Unknown keys in overlay are rejected.
func Merge(base, overlay []byte) (Config, error) {
	var cfg Config
	if len(bytes.TrimSpace(base)) == 0 {
		return cfg, fmt.Errorf("default config is empty")
	}
	if err := yaml.Unmarshal(base, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}
	if len(bytes.TrimSpace(overlay)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(overlay))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("decode config: %w", err)
		}
	}
	return cfg, cfg.Validate()
}

// Validate checks the details blocks and output settings.
func (c Config) Validate() error {
	if err := tree.ValidateDetails(c.Details); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Roles.Sections == "" || c.Roles.Cards == "" {
		return fmt.Errorf("%w: roles.sections and roles.cards must be set", ErrInvalid)
	}
	switch c.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: output.color %q (expected auto, always or never)", ErrInvalid, c.Output.Color)
	}
	if c.Output.Indent < 1 || c.Output.Indent > 8 {
		return fmt.Errorf("%w: output.indent %d out of range 1-8", ErrInvalid, c.Output.Indent)
	}
	if c.Output.MaxValueLen < 0 {
		return fmt.Errorf("%w: output.max_value_len must not be negative", ErrInvalid)
	}
	return nil
}

// ResolvePath returns explicit if set, otherwise
// $XDG_CONFIG_HOME/cardtree/config.yaml or ~/.config/cardtree/config.yaml
// when that file exists, otherwise "".
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, FileName)
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, FileName)
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}
