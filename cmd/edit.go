package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/cardtree/internal/formatter"
	"github.com/oakwood-commons/cardtree/pkg/editor"
	"github.com/oakwood-commons/cardtree/pkg/settings"
)

func newGetCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get FILE PATH",
		Short: "Print the value or subtree at a path",
		Long: `Print the row at PATH. A leaf prints its text; a container prints its
subtree as JSON unless --output picks another format.

Paths use dots for object keys and brackets for list indexes or keys with
special characters: sections[0].cards[1]["Quartos:"]`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			n, err := s.ed.Resolve(args[1])
			if err != nil {
				return err
			}
			if n.IsLeaf() && output == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), n.Value())
				return err
			}
			b, err := formatter.Export(s.ed.Tree().SerializeNode(n), output, formatter.ExportOptions{Indent: s.cfg.Output.Indent})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: json|yaml|toml")
	return cmd
}

func newSetCmd(run *settings.Run) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set FILE PATH VALUE",
		Short: "Set the text of a leaf",
		Long: `Set the leaf at PATH to VALUE. On save the text is decoded: numbers, true,
false, null and list or map literals become typed JSON, anything else stays
a string.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			n, err := s.ed.Resolve(args[1])
			if err != nil {
				return err
			}
			if err := s.ed.EditLeafValue(n, args[2]); err != nil {
				return err
			}
			return s.commit(cmd)
		},
	}
	addWriteFlags(cmd.Flags(), run)
	return cmd
}

func newDeleteCmd(run *settings.Run) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete FILE PATH",
		Short: "Remove the row at a path with its subtree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			n, err := s.ed.Resolve(args[1])
			if err != nil {
				return err
			}
			if err := s.ed.RemoveSubtree(n); err != nil {
				return err
			}
			status(cmd, "deleted %s", args[1])
			return s.commit(cmd)
		},
	}
	addWriteFlags(cmd.Flags(), run)
	return cmd
}

func newAddSectionCmd(run *settings.Run) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-section FILE",
		Short: "Append a copy of the first section",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			n, err := s.ed.AddSection()
			if err != nil {
				return err
			}
			status(cmd, "added %s", n.Path())
			return s.commit(cmd)
		},
	}
	addWriteFlags(cmd.Flags(), run)
	return cmd
}

func newAddCardCmd(run *settings.Run) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-card FILE PATH",
		Short: "Append a copy of the first card of the cards container at PATH",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			cards, err := s.ed.Resolve(args[1])
			if err != nil {
				return err
			}
			n, err := s.ed.AddCard(cards)
			if err != nil {
				return err
			}
			status(cmd, "added %s", n.Path())
			return s.commit(cmd)
		},
	}
	addWriteFlags(cmd.Flags(), run)
	return cmd
}

func newCloneCmd(run *settings.Run) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clone FILE PATH",
		Short: "Append a copy of the first child of the container at PATH",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			container, err := s.ed.Resolve(args[1])
			if err != nil {
				return err
			}
			n, err := s.ed.CloneAndAppend(container)
			if err != nil {
				return err
			}
			status(cmd, "added %s", n.Path())
			return s.commit(cmd)
		},
	}
	addWriteFlags(cmd.Flags(), run)
	return cmd
}

func newApplyCmd(run *settings.Run) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply FILE SCRIPT",
		Short: "Run a YAML edit script against the document",
		Long: `Run the edits in SCRIPT in order. Each op is one of set, delete, add-section,
add-card or clone:

  ops:
    - {op: set, path: "sections[0].name", value: Porto}
    - {op: clone, path: "sections[0].cards"}
    - {op: delete, path: "sections[1]"}

Clones with nothing to copy are counted as rejected and skipped. Any other
failure leaves the document unchanged. SCRIPT may be "-" for stdin.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == stdinPath && args[1] == stdinPath {
				return fmt.Errorf("document and script cannot both be read from stdin")
			}
			data, err := readInput(cmd.InOrStdin(), args[1])
			if err != nil {
				return fmt.Errorf("read edit script: %w", err)
			}
			ops, err := editor.ParseScript(data)
			if err != nil {
				return err
			}
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			res, err := s.ed.Apply(ops)
			if err != nil {
				return err
			}
			status(cmd, "applied %d, rejected %d", res.Applied, res.Rejected)
			if !s.ed.Dirty() && !s.run.DryRun {
				return nil
			}
			return s.commit(cmd)
		},
	}
	addWriteFlags(cmd.Flags(), run)
	return cmd
}

func newFmtCmd(run *settings.Run) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt FILE",
		Short: "Rewrite the document in canonical form",
		Long: `Load and save the document: two-space indent, details blocks rejoined in
label order.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			return s.commit(cmd)
		},
	}
	addWriteFlags(cmd.Flags(), run)
	return cmd
}
