// Package archive loads source trees shipped as .tar.gz files so they can be
// scanned without extracting them to disk.
package archive

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// Root is the directory archive contents are placed under in the returned fs.
const Root = "/"

// LoadOptions provides configuration for loading an archive
type LoadOptions struct {
	// StripComponents removes the specified number of leading path components
	// Similar to tar's --strip-components
	StripComponents int

	// Include keeps only the entries matching one of these globs, after
	// stripping. Empty keeps everything.
	Include []string
}

// Load reads a tar.gz archive into an in-memory filesystem. Regular files
// keep their (stripped) archive path below Root; other entries are skipped.
func Load(data []byte, opts LoadOptions) (afero.Fs, error) {
	return LoadReader(bytes.NewReader(data), opts)
}

func LoadReader(r io.Reader, opts LoadOptions) (afero.Fs, error) {
	gzr, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Errorf("creating gzip reader: %w", err)
	}
	defer gzr.Close()

	fs := afero.NewMemMapFs()
	tr := tar.NewReader(gzr)

	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Errorf("reading tar: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		name, ok := strip(header.Name, opts.StripComponents)
		if !ok || !included(name, opts.Include) {
			continue
		}

		target := path.Join(Root, name)
		if ok, _ := afero.Exists(fs, target); ok {
			return nil, errors.Errorf("duplicate archive entry %s", header.Name)
		}

		var buf bytes.Buffer
		if _, err := io.Copy(&buf, tr); err != nil {
			return nil, errors.Errorf("reading %s: %w", header.Name, err)
		}

		if err := afero.WriteFile(fs, target, buf.Bytes(), 0o644); err != nil {
			return nil, errors.Errorf("storing %s: %w", header.Name, err)
		}
	}

	return fs, nil
}

// strip drops the first n components of an archive path. Entries that
// escape the archive root are rejected.
func strip(name string, n int) (string, bool) {
	components := splitPath(name)
	if len(components) <= n {
		return "", false
	}
	for _, c := range components {
		if c == ".." {
			return "", false
		}
	}
	return path.Join(components[n:]...), true
}

// splitPath splits an archive path into components
func splitPath(name string) []string {
	var components []string
	for _, c := range strings.Split(strings.Trim(name, "/"), "/") {
		if c == "" || c == "." {
			continue
		}
		components = append(components, c)
	}
	return components
}

func included(name string, include []string) bool {
	if len(include) == 0 {
		return true
	}
	for _, pattern := range include {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
