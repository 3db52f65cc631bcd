package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/cardtree/internal/config"
	"github.com/oakwood-commons/cardtree/pkg/settings"
)

// loadConfig merges the explicit config file, or the XDG one when present,
// over the built-in defaults.
func loadConfig(explicit string) (config.Config, error) {
	return config.Load(config.ResolvePath(explicit))
}

func newConfigCmd() *cobra.Command {
	var output string
	var showDefault bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the merged configuration",
		Long: `Print the configuration in effect: the built-in defaults with the user config
file laid over them. --default prints the built-in file with its comments.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showDefault {
				_, err := cmd.OutOrStdout().Write(config.DefaultYAML())
				return err
			}
			cfg, err := loadConfig(settings.FromContext(cmd.Context()).ConfigFile)
			if err != nil {
				return err
			}
			return writeConfig(cmd.OutOrStdout(), cfg, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "output format: yaml|json")
	cmd.Flags().BoolVar(&showDefault, "default", false, "print the built-in default config")
	return cmd
}

func writeConfig(w io.Writer, cfg config.Config, format string) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}
	return fmt.Errorf("unsupported config output %q (expected yaml or json)", format)
}
