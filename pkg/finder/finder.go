package finder

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/editorconfig/editorconfig-core-go/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// SourceFinder is responsible for finding source files to scan
type SourceFinder interface {
	// Find returns the files under root matching include and not exclude
	Find(ctx context.Context, root string, include, exclude []string) ([]string, error)
}

// DefaultFinder is the default implementation of SourceFinder
type DefaultFinder struct {
	fs afero.Fs
}

// NewDefaultFinder creates a new DefaultFinder reading from fs
func NewDefaultFinder(fs afero.Fs) *DefaultFinder {
	return &DefaultFinder{fs: fs}
}

// Find implements SourceFinder. Returned paths are joined onto root, sorted
// and free of duplicates. Files whose .editorconfig charset is not UTF-8 are
// skipped, since token offsets are byte offsets into UTF-8 text.
func (f *DefaultFinder) Find(ctx context.Context, root string, include, exclude []string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving %s: %w", root, err)
	}

	fsys := afero.NewIOFS(afero.NewBasePathFs(f.fs, absRoot))

	ec, err := f.loadEditorconfig(absRoot)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, pattern := range include {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("matching %q under %s: %w", pattern, root, err)
		}

		for _, match := range matches {
			if excluded(match, exclude) {
				continue
			}
			if !utf8Charset(ctx, ec, match) {
				continue
			}
			seen[match] = struct{}{}
		}
	}

	files := make([]string, 0, len(seen))
	for match := range seen {
		files = append(files, filepath.Join(root, filepath.FromSlash(match)))
	}
	sort.Strings(files)

	zerolog.Ctx(ctx).Debug().Str("root", root).Strs("include", include).Int("files", len(files)).Msg("found source files")

	return files, nil
}

// Expand turns command line arguments into files: existing files are kept as
// they are, directories are searched with include, anything else is treated
// as a glob. A glob is searched from its leading non-glob directory, so
// absolute globs work as well as relative ones.
func (f *DefaultFinder) Expand(ctx context.Context, args, include, exclude []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(paths ...string) {
		for _, path := range paths {
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, arg := range args {
		info, err := f.fs.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			found, err := f.Find(ctx, arg, include, exclude)
			if err != nil {
				return nil, err
			}
			add(found...)
		case err == nil:
			add(arg)
		default:
			pattern := filepath.ToSlash(arg)
			if !doublestar.ValidatePattern(pattern) {
				return nil, errors.Errorf("%s is neither a file, a directory nor a valid glob", arg)
			}
			// the static prefix is the directory to search, the rest is matched under it
			base, rest := doublestar.SplitPattern(pattern)
			found, err := f.Find(ctx, filepath.FromSlash(base), []string{rest}, exclude)
			if err != nil {
				return nil, err
			}
			if len(found) == 0 {
				return nil, errors.Errorf("no files match %s", arg)
			}
			add(found...)
		}
	}

	return files, nil
}

func excluded(path string, exclude []string) bool {
	for _, pattern := range exclude {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

func (f *DefaultFinder) loadEditorconfig(root string) (*editorconfig.Editorconfig, error) {
	path := filepath.Join(root, ".editorconfig")
	file, err := f.fs.Open(path)
	if err != nil {
		return nil, nil
	}
	defer file.Close()

	ec, err := editorconfig.Parse(file)
	if err != nil {
		return nil, errors.Errorf("parsing %s: %w", path, err)
	}
	return ec, nil
}

func utf8Charset(ctx context.Context, ec *editorconfig.Editorconfig, path string) bool {
	if ec == nil {
		return true
	}

	// sections are matched against paths rooted at the .editorconfig directory
	def, err := ec.GetDefinitionForFilename("/" + path)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("file", path).Msg("reading editorconfig definition")
		return true
	}

	switch strings.ToLower(def.Charset) {
	case "", "utf-8", "utf-8-bom":
		return true
	default:
		zerolog.Ctx(ctx).Warn().Str("file", path).Str("charset", def.Charset).Msg("skipping file that is not utf-8")
		return false
	}
}
