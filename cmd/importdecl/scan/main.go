package scan

import (
	"context"
	"io"
	"path"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/importdecl/cmd/importdecl/global"
	"github.com/walteh/importdecl/pkg/archive"
	"github.com/walteh/importdecl/pkg/batch"
	"github.com/walteh/importdecl/pkg/config"
	"github.com/walteh/importdecl/pkg/diagnostic"
	"github.com/walteh/importdecl/pkg/finder"
	"github.com/walteh/importdecl/pkg/report"
)

var (
	ErrFailOn      = errors.Base("diagnostics reached the fail_on threshold")
	ErrFilesFailed = errors.Base("some files could not be scanned")
)

type Handler struct {
	global      *global.Flags
	fs          afero.Fs
	workdir     string
	args        []string
	concurrency int
	failOn      string
	archive     string
	strip       int
	out         io.Writer
}

func NewScanCommand(flags *global.Flags) *cobra.Command {
	me := &Handler{
		global:  flags,
		fs:      afero.NewOsFs(),
		workdir: ".",
	}

	cmd := &cobra.Command{
		Use:   "scan [paths or globs...]",
		Short: "list the import declarations of swift source files",
		Long: `scan finds swift source files, extracts their import declarations and writes a report.

Arguments may be files, directories or globs. Directories are searched with the
include and exclude globs of the config file. When a file has a sibling
<file>.tokens.json it is used as the token stream instead of the built in lexer.`,
	}

	cmd.Flags().IntVar(&me.concurrency, "concurrency", 0, "how many files to scan at once (overrides the config file)")
	cmd.Flags().StringVar(&me.failOn, "fail-on", "", "lowest diagnostic severity that fails the scan: none, warning or error (overrides the config file)")
	cmd.Flags().StringVar(&me.archive, "archive", "", "scan the contents of a .tar.gz file instead of the working tree")
	cmd.Flags().IntVar(&me.strip, "strip-components", 0, "leading path components to drop from archive entries")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		me.args = args
		me.out = cmd.OutOrStdout()
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) loadConfig() (*config.Config, error) {
	path := me.global.Config
	if path == "" {
		found, err := config.Discover(me.fs, me.workdir)
		if err != nil {
			return nil, err
		}
		path = found
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(me.fs, path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if me.global.Format != "" {
		cfg.Format = me.global.Format
	}
	if me.concurrency != 0 {
		cfg.Concurrency = me.concurrency
	}
	if me.failOn != "" {
		cfg.FailOn = me.failOn
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("invalid flags: %w", err)
	}

	return cfg, nil
}

// sources returns the filesystem to scan and the arguments to expand in it.
// With an archive, arguments are paths inside the archive.
func (me *Handler) sources() (afero.Fs, []string, error) {
	if me.archive == "" {
		return me.fs, me.args, nil
	}

	f, err := me.fs.Open(me.archive)
	if err != nil {
		return nil, nil, errors.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	fs, err := archive.LoadReader(f, archive.LoadOptions{StripComponents: me.strip})
	if err != nil {
		return nil, nil, errors.Errorf("loading %s: %w", me.archive, err)
	}

	args := make([]string, 0, len(me.args))
	for _, arg := range me.args {
		args = append(args, path.Join(archive.Root, arg))
	}
	if len(args) == 0 {
		args = []string{archive.Root}
	}

	return fs, args, nil
}

func (me *Handler) Run(ctx context.Context) error {
	cfg, err := me.loadConfig()
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Strs("include", cfg.Include).
		Strs("exclude", cfg.Exclude).
		Str("format", cfg.Format).
		Int("concurrency", cfg.Concurrency).
		Str("fail_on", cfg.FailOn).
		Msg("loaded config")

	fs, args, err := me.sources()
	if err != nil {
		return err
	}

	files, err := finder.NewDefaultFinder(fs).Expand(ctx, args, cfg.Include, cfg.Exclude)
	if err != nil {
		return errors.Errorf("finding source files: %w", err)
	}

	if len(files) == 0 {
		zerolog.Ctx(ctx).Warn().Strs("args", me.args).Msg("no source files found")
	}

	res, runErr := batch.Run(ctx, fs, files, batch.Options{Concurrency: cfg.Concurrency})
	if res == nil {
		return errors.Errorf("scanning: %w", runErr)
	}

	if err := report.Write(me.out, cfg.Format, res, report.Options{Color: me.global.Color()}); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Str("run_id", res.RunID).Msg(report.Summary(res))

	if runErr != nil {
		return errors.Errorf("%w: %s", ErrFilesFailed, runErr.Error())
	}

	if cfg.FailOn == config.FailOnNone {
		return nil
	}

	highest := diagnostic.Max(res.Diagnostics())
	if highest != "" && highest.Rank() >= diagnostic.Severity(cfg.FailOn).Rank() {
		return errors.Errorf("%w: found %s, fail_on is %s", ErrFailOn, highest, cfg.FailOn)
	}

	return nil
}
