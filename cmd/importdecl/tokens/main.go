package tokens

import (
	"context"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/importdecl/pkg/lexer"
	"github.com/walteh/importdecl/pkg/syntax"
)

type Handler struct {
	fs   afero.Fs
	file string
	out  io.Writer
}

func NewTokensCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "print the syntax tokens of a swift file as sourcekitten json",
		Long: `tokens runs the built in lexer and prints its output in the form produced by
"sourcekitten syntax". Saved next to a source file as <file>.tokens.json, the
output is picked up by scan in place of the lexer.`,
	}

	cmd.Args = cobra.ExactArgs(1)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.file = args[0]
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

	toks, err := lexer.Tokenize(me.file, src)
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().Str("file", me.file).Int("tokens", len(toks)).Msg("tokenized file")

	return syntax.EncodeTokens(me.out, toks)
}
