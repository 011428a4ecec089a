package global

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/walteh/importdecl/pkg/debug"
)

// Flags are the persistent flags shared by every importdecl command
type Flags struct {
	Debug   bool
	Config  string
	Format  string
	NoColor bool
}

func (me *Flags) Register(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVar(&me.Debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&me.Config, "config", "", "path to a .importdecl.hcl, .yaml or .toml file")
	cmd.PersistentFlags().StringVar(&me.Format, "format", "", "report format: text, json or msgpack (overrides the config file)")
	cmd.PersistentFlags().BoolVar(&me.NoColor, "no-color", false, "disable colored output")
}

// Color reports whether output should be colored. fatih/color already turns
// itself off when stdout is not a terminal or NO_COLOR is set.
func (me *Flags) Color() bool {
	return !me.NoColor && !color.NoColor
}

// WithLogger returns ctx carrying the command line logger, writing to w.
func (me *Flags) WithLogger(ctx context.Context, w io.Writer) context.Context {
	return debug.WithLogger(ctx, w, debug.Options{
		Debug: me.Debug,
		Color: me.Color(),
	})
}
