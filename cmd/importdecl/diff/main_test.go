package diff

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/importdecl/cmd/importdecl/global"
)

func setup(t *testing.T, before, after string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/old.swift", []byte(before), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/p/new.swift", []byte(after), 0o644))
	return fs
}

func TestDiff(t *testing.T) {
	fs := setup(t,
		"import Foundation\nimport UIKit\n",
		"import Foundation\n@testable import App\n",
	)

	out := &bytes.Buffer{}
	h := &Handler{global: &global.Flags{NoColor: true}, fs: fs, before: "/p/old.swift", after: "/p/new.swift", out: out}
	require.NoError(t, h.Run(context.Background()))

	assert.Contains(t, out.String(), " import Foundation\n")
	assert.Contains(t, out.String(), "-import UIKit\n")
	assert.Contains(t, out.String(), "+@testable import App\n")
}

func TestDiffSummary(t *testing.T) {
	fs := setup(t,
		"import Foundation\nimport UIKit\n",
		"import Foundation\n@testable import App\n",
	)

	out := &bytes.Buffer{}
	h := &Handler{global: &global.Flags{NoColor: true}, fs: fs, before: "/p/old.swift", after: "/p/new.swift", summary: true, out: out}
	require.NoError(t, h.Run(context.Background()))

	assert.Equal(t, "- import UIKit\n+ @testable import App\n", out.String())
}

func TestDiffIdentical(t *testing.T) {
	fs := setup(t, "import Foundation\n", "// moved\nimport Foundation\n")

	out := &bytes.Buffer{}
	h := &Handler{global: &global.Flags{NoColor: true}, fs: fs, before: "/p/old.swift", after: "/p/new.swift", out: out}
	require.NoError(t, h.Run(context.Background()))
	assert.Empty(t, out.String())
}

func TestDiffMissingFile(t *testing.T) {
	fs := setup(t, "import A\n", "import B\n")

	h := &Handler{global: &global.Flags{}, fs: fs, before: "/p/old.swift", after: "/p/gone.swift", out: &bytes.Buffer{}}
	err := h.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scanning new file")
	assert.True(t, errors.Is(err, os.ErrNotExist), "the read error is wrapped, not replaced")
}
