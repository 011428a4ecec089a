package diff

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/importdecl/cmd/importdecl/global"
	"github.com/walteh/importdecl/pkg/batch"
	importdiff "github.com/walteh/importdecl/pkg/diff"
)

type Handler struct {
	global  *global.Flags
	fs      afero.Fs
	before  string
	after   string
	summary bool
	out     io.Writer
}

func NewDiffCommand(flags *global.Flags) *cobra.Command {
	me := &Handler{global: flags, fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "diff [old-file] [new-file]",
		Short: "show how the imports of a swift file changed",
	}

	cmd.Flags().BoolVar(&me.summary, "summary", false, "only list added and removed imports")
	cmd.Args = cobra.ExactArgs(2)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.before, me.after = args[0], args[1]
		me.out = cmd.OutOrStdout()
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	before := batch.ScanFile(ctx, me.fs, me.before)
	if before.Err != nil {
		return errors.Errorf("scanning old file: %w", before.Err)
	}
	after := batch.ScanFile(ctx, me.fs, me.after)
	if after.Err != nil {
		return errors.Errorf("scanning new file: %w", after.Err)
	}

	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	if me.global.Color() {
		added.EnableColor()
		removed.EnableColor()
	} else {
		added.DisableColor()
		removed.DisableColor()
	}

	if me.summary {
		plus, minus := importdiff.Changes(before.Declarations(), after.Declarations())
		for _, line := range minus {
			removed.Fprintf(me.out, "- %s\n", line)
		}
		for _, line := range plus {
			added.Fprintf(me.out, "+ %s\n", line)
		}
		return nil
	}

	d := importdiff.Imports(before.Declarations(), after.Declarations())
	if d == "" {
		return nil
	}

	for _, line := range strings.Split(strings.TrimSuffix(d, "\n"), "\n") {
		var err error
		switch {
		case len(line) > 0 && line[0] == '+':
			_, err = added.Fprintln(me.out, line)
		case len(line) > 0 && line[0] == '-':
			_, err = removed.Fprintln(me.out, line)
		default:
			_, err = fmt.Fprintln(me.out, line)
		}
		if err != nil {
			return errors.Errorf("writing diff: %w", err)
		}
	}

	return nil
}
