package parse

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/importdecl/pkg/syntax"
)

const source = "@testable import func Foundation.Func.Sort"

const tokensJSON = `[
	{"type":"source.lang.swift.syntaxtype.keyword","offset":10,"length":6},
	{"type":"source.lang.swift.syntaxtype.keyword","offset":0,"length":9},
	{"type":"source.lang.swift.syntaxtype.keyword","offset":17,"length":4},
	{"type":"source.lang.swift.syntaxtype.identifier","offset":22,"length":10},
	{"type":"source.lang.swift.syntaxtype.identifier","offset":33,"length":4},
	{"type":"source.lang.swift.syntaxtype.identifier","offset":38,"length":4}
]`

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		tokens  string
		stdin   string
		want    string
		wantErr error
	}{
		{
			name:   "tokens_file",
			tokens: "/p/a.swift.json",
			want:   "@testable import func Foundation.Func.Sort\n",
		},
		{
			name:   "tokens_from_stdin",
			tokens: "-",
			stdin:  tokensJSON,
			want:   "@testable import func Foundation.Func.Sort\n",
		},
		{
			name:   "syntax_map_from_stdin",
			tokens: "-",
			stdin:  `{"key.syntaxmap":[{"key.kind":"source.lang.swift.syntaxtype.keyword","key.offset":10,"key.length":6}]}`,
			want:   "import \n",
		},
		{
			name:    "out_of_range_token",
			tokens:  "-",
			stdin:   `[{"type":"source.lang.swift.syntaxtype.keyword","offset":40,"length":6}]`,
			wantErr: syntax.ErrInvalidTokenBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, "/p/a.swift", []byte(source), 0o644))
			require.NoError(t, afero.WriteFile(fs, "/p/a.swift.json", []byte(tokensJSON), 0o644))

			out := &bytes.Buffer{}
			h := &Handler{
				fs:     fs,
				file:   "/p/a.swift",
				tokens: tt.tokens,
				in:     strings.NewReader(tt.stdin),
				out:    out,
			}

			err := h.Run(context.Background())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}
