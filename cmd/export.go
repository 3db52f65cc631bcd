package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	icel "github.com/oakwood-commons/cardtree/internal/cel"
	"github.com/oakwood-commons/cardtree/internal/formatter"
)

func newExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Print the saved form of the document as JSON, YAML or TOML",
		Long: `Print the document as it would be saved, in the chosen format. TOML has no
null, so null members are dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			b, err := formatter.Export(s.ed.Tree().Serialize(), output, formatter.ExportOptions{Indent: s.cfg.Output.Indent})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", formatter.JSON, "output format: "+strings.Join(formatter.ValidFormats, "|"))
	return cmd
}

func newEvalCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "eval FILE EXPR",
		Short: "Evaluate a CEL expression over the document",
		Long: `Evaluate a CEL expression with the saved form of the document bound to "_".
Details properties are seen as their joined text.

  cardtree eval catalog.json '_.sections.size()'
  cardtree eval catalog.json '_.sections[0].cards.filter(c, c.city == "Lisboa")'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			ev, err := icel.NewEvaluator()
			if err != nil {
				return err
			}
			res, err := ev.Evaluate(args[1], s.ed.Tree().Serialize())
			if err != nil {
				return err
			}
			if str, ok := res.(string); ok && output == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), str)
				return err
			}
			b, err := formatter.Export(res, output, formatter.ExportOptions{Indent: s.cfg.Output.Indent})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: json|yaml|toml (strings print raw by default)")
	return cmd
}
