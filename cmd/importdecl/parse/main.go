package parse

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/importdecl/pkg/importdecl"
	"github.com/walteh/importdecl/pkg/syntax"
)

type Handler struct {
	fs     afero.Fs
	file   string
	tokens string
	in     io.Reader
	out    io.Writer
}

func NewParseCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "print the import declarations of one file using an external token stream",
	}

	cmd.Flags().StringVar(&me.tokens, "tokens", "", "sourcekitten syntax json for the file (use - for stdin)")
	_ = cmd.MarkFlagRequired("tokens")
	cmd.Args = cobra.ExactArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.file = args[0]
		me.in = cmd.InOrStdin()
		me.out = cmd.OutOrStdout()
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	src, err := afero.ReadFile(me.fs, me.file)
	if err != nil {
		return errors.Errorf("reading %s: %w", me.file, err)
	}

	toks, err := me.readTokens()
	if err != nil {
		return err
	}

	parser, err := importdecl.NewParser(string(src), toks)
	if err != nil {
		return errors.Errorf("parsing %s: %w", me.file, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("file", me.file).
		Int("tokens", len(toks)).
		Int("imports", len(parser.Sites())).
		Msg("parsed file")

	for _, line := range parser.Descriptions() {
		if _, err := fmt.Fprintln(me.out, line); err != nil {
			return errors.Errorf("writing output: %w", err)
		}
	}

	return nil
}

func (me *Handler) readTokens() ([]syntax.Token, error) {
	if me.tokens == "-" {
		return syntax.DecodeTokens(me.in)
	}

	f, err := me.fs.Open(me.tokens)
	if err != nil {
		return nil, errors.Errorf("opening tokens: %w", err)
	}
	defer f.Close()

	toks, err := syntax.DecodeTokens(f)
	if err != nil {
		return nil, errors.Errorf("%s: %w", me.tokens, err)
	}
	return toks, nil
}
