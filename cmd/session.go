package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oakwood-commons/cardtree/internal/config"
	"github.com/oakwood-commons/cardtree/pkg/editor"
	"github.com/oakwood-commons/cardtree/pkg/logger"
	"github.com/oakwood-commons/cardtree/pkg/settings"
)

// stdinPath reads the document from standard input.
const stdinPath = "-"

// session is one command's loaded config and document.
type session struct {
	cfg config.Config
	run *settings.Run
	ed  *editor.Editor
}

func openSession(cmd *cobra.Command, path string) (*session, error) {
	ctx := cmd.Context()
	run := settings.FromContext(ctx)
	cfg, err := loadConfig(run.ConfigFile)
	if err != nil {
		return nil, err
	}
	lgr := logger.WithValues(logger.FromContext(ctx), logger.FileKey, path)
	ed := editor.New(append(cfg.EditorOptions(), editor.WithLogger(*lgr))...)

	if path == stdinPath {
		raw, err := readInput(cmd.InOrStdin(), path)
		if err != nil {
			return nil, &editor.LoadError{Err: err}
		}
		if err := ed.Load(string(raw)); err != nil {
			return nil, err
		}
	} else if err := ed.LoadFile(path); err != nil {
		return nil, err
	}
	return &session{cfg: cfg, run: run, ed: ed}, nil
}

// commit writes the document: to stdout with --dry-run, otherwise to --out
// or back to the file it was loaded from.
func (s *session) commit(cmd *cobra.Command) error {
	if s.run.DryRun {
		b, err := s.ed.Save()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	}
	if err := s.ed.SaveFile(s.run.OutPath); err != nil {
		return err
	}
	status(cmd, "wrote %s", s.ed.Path())
	return nil
}

// status reports progress on stderr so stdout stays machine-readable.
func status(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == stdinPath {
		if stdin == nil {
			stdin = os.Stdin
		}
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// addWriteFlags registers the flags shared by commands that change the
// document.
func addWriteFlags(fs *pflag.FlagSet, run *settings.Run) {
	fs.StringVar(&run.OutPath, "out", "", "write the result to this file instead of the input file")
	fs.BoolVar(&run.DryRun, "dry-run", false, "print the result to stdout instead of writing it")
}
