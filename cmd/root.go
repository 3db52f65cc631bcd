// Package cmd implements the cardtree command line.
package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/cardtree/pkg/logger"
	"github.com/oakwood-commons/cardtree/pkg/settings"
)

const rootExample = `
  cardtree show catalog.json --search lisboa
  cardtree get catalog.json 'sections[0].cards[0]["Quartos:"]'
  cardtree set catalog.json 'sections[0].cards[0].price' 250000
  cardtree clone catalog.json 'sections[0].cards' --dry-run
  cardtree apply catalog.json edits.yaml --out edited.json
  cardtree eval catalog.json '_.sections.map(s, s.cards.size())'`

func newRootCmd() *cobra.Command {
	run := settings.NewCliParams()
	var debug bool

	cmd := &cobra.Command{
		Use:   settings.CliBinaryName,
		Short: "Inspect and edit JSON card catalogs as a tree",
		Long: `cardtree maps a JSON document into a tree of key/value rows. Newline-delimited
details properties are shown and edited as one labeled row per line, and are
joined back when the document is saved.`,
		Example:       rootExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// debug maps to zap.DebugLevel (-1), otherwise zap.InfoLevel (0)
			if debug {
				run.MinLogLevel = -1
			}
			lgr := logger.Get(run.MinLogLevel)
			lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = logger.WithLogger(ctx, lgr)
			cmd.SetContext(settings.IntoContext(ctx, run))
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&debug, "debug", false, "log load, save and edit events to stderr")
	pf.StringVar(&run.ConfigFile, "config-file", "", "path to a YAML config file (default $XDG_CONFIG_HOME/cardtree/config.yaml)")
	pf.BoolVar(&run.NoColor, "no-color", false, "disable color output")

	cmd.AddCommand(
		newShowCmd(),
		newGetCmd(),
		newSetCmd(run),
		newDeleteCmd(run),
		newAddSectionCmd(run),
		newAddCardCmd(run),
		newCloneCmd(run),
		newApplyCmd(run),
		newFmtCmd(run),
		newExportCmd(),
		newEvalCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the command line with os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print cardtree version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return err
		},
	}
}

func versionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)",
		settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}
