package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oakwood-commons/cardtree/internal/config"
	"github.com/oakwood-commons/cardtree/internal/formatter"
	"github.com/oakwood-commons/cardtree/pkg/settings"
)

type showOptions struct {
	search   string
	keys     bool
	lineOnly bool
	depth    int
	maxValue int
	output   string
}

func newShowCmd() *cobra.Command {
	var o showOptions
	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print the document as a tree, optionally filtered",
		Long: `Print the rows of the document as a tree. Details properties appear as one
labeled row per line.

--search keeps rows whose value (or key, with --keys) contains the text,
with their ancestors. By default the other rows of a matching card are kept
too; --line-only shows just the matching lines. --output markdown or html
renders the same rows as a nested list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			f := s.ed.Filter()
			flags := cmd.Flags()
			if flags.Changed("search") {
				f.Query = o.search
			}
			if flags.Changed("keys") {
				f.SearchInKeys = o.keys
			}
			if flags.Changed("line-only") {
				f.ShowWholeCard = !o.lineOnly
			}
			s.ed.SetFilter(f.Query, f.SearchInKeys, f.ShowWholeCard)

			maxValue := s.cfg.Output.MaxValueLen
			if flags.Changed("max-value") {
				maxValue = o.maxValue
			}
			title := filepath.Base(args[0])
			if args[0] == stdinPath {
				title = "stdin"
			}
			out := cmd.OutOrStdout()
			switch o.output {
			case "markdown", "md":
				_, err = io.WriteString(out, formatter.FormatMarkdown(s.ed.Tree(), s.ed.Visible(), title))
				return err
			case "html":
				_, err = out.Write(formatter.FormatHTML(s.ed.Tree(), s.ed.Visible(), title))
				return err
			case "tree", "":
			default:
				return fmt.Errorf("unsupported show output %q (expected tree, markdown or html)", o.output)
			}
			_, err = io.WriteString(out, formatter.FormatTree(s.ed.Tree(), s.ed.Visible(), formatter.TreeOptions{
				Title:       title,
				MaxDepth:    o.depth,
				MaxValueLen: maxValue,
				Color:       useColor(s.cfg.Output.Color, settings.FromContext(cmd.Context()).NoColor, out),
			}))
			return err
		},
	}
	cmd.Flags().StringVar(&o.search, "search", "", "show only rows containing this text (case-insensitive)")
	cmd.Flags().BoolVar(&o.keys, "keys", false, "match --search against keys instead of values")
	cmd.Flags().BoolVar(&o.lineOnly, "line-only", false, "do not reveal the other rows of a matching card")
	cmd.Flags().IntVar(&o.depth, "depth", 0, "limit tree depth (0 = unlimited)")
	cmd.Flags().StringVarP(&o.output, "output", "o", "tree", "output format: tree|markdown|html")
	cmd.Flags().IntVar(&o.maxValue, "max-value", 0, "truncate values to this display width (0 = unlimited)")
	return cmd
}

// useColor resolves the configured color mode. auto colors only when w is a
// terminal and NO_COLOR is unset.
func useColor(mode string, noColor bool, w io.Writer) bool {
	if noColor {
		return false
	}
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
