// Package batch scans many source files for import declarations at once.
//
// Files are independent: each one is read, tokenized, parsed and checked on
// its own goroutine, bounded by Options.Concurrency. A failure in one file is
// recorded against that file and never stops the others.
package batch

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/walteh/importdecl/pkg/diagnostic"
	"github.com/walteh/importdecl/pkg/importdecl"
	"github.com/walteh/importdecl/pkg/lexer"
	"github.com/walteh/importdecl/pkg/syntax"
)

// TokensSuffix names the sidecar file holding externally produced tokens for
// a source file, e.g. `main.swift.tokens.json`.
const TokensSuffix = ".tokens.json"

const (
	TokenSourceLexer   = "lexer"
	TokenSourceSidecar = "sidecar"
)

type Options struct {
	// Concurrency bounds how many files are scanned at once; values below 1 mean 1
	Concurrency int
}

// FileResult is the outcome of scanning one file.
type FileResult struct {
	Path        string
	Contents    string
	TokenSource string
	Sites       []importdecl.Site
	Diagnostics []diagnostic.Diagnostic
	Err         error
}

// Declarations returns the declarations found in the file, in source order.
func (r FileResult) Declarations() []importdecl.Declaration {
	out := make([]importdecl.Declaration, 0, len(r.Sites))
	for _, site := range r.Sites {
		out = append(out, site.Declaration)
	}
	return out
}

type Result struct {
	RunID string
	Files []FileResult
}

// Diagnostics returns the diagnostics of every file.
func (r *Result) Diagnostics() []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	for _, file := range r.Files {
		out = append(out, file.Diagnostics...)
	}
	return out
}

// Run scans files and returns their results in input order. The returned
// error aggregates every per-file failure; the result is complete even when
// it is non-nil. Only a cancelled context returns a nil Result.
func Run(ctx context.Context, fs afero.Fs, files []string, opts Options) (*Result, error) {
	runID := uuid.NewString()

	logger := zerolog.Ctx(ctx).With().Str("run_id", runID).Logger()
	ctx = logger.WithContext(ctx)

	limit := opts.Concurrency
	if limit < 1 {
		limit = 1
	}

	result := &Result{
		RunID: runID,
		Files: make([]FileResult, len(files)),
	}

	var (
		mu   sync.Mutex
		merr *multierror.Error
	)

	g := &errgroup.Group{}
	g.SetLimit(limit)

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			_ = g.Wait()
			return nil, errors.Errorf("scan cancelled: %w", err)
		}

		g.Go(func() error {
			res := ScanFile(ctx, fs, path)
			result.Files[i] = res
			if res.Err != nil {
				mu.Lock()
				merr = multierror.Append(merr, res.Err)
				mu.Unlock()
			}
			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("scan cancelled: %w", err)
	}

	logger.Info().Int("files", len(files)).Int("failed", errorCount(merr)).Msg("scan finished")

	return result, merr.ErrorOrNil()
}

// ScanFile reads, tokenizes, parses and checks a single file. Tokens come
// from a sidecar `<path>.tokens.json` when one exists, otherwise from the
// built-in lexer.
func ScanFile(ctx context.Context, fs afero.Fs, path string) FileResult {
	logger := zerolog.Ctx(ctx).With().Str("file", path).Logger()

	res := FileResult{Path: path}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		res.Err = errors.Errorf("%s: reading source: %w", path, err)
		return res
	}
	res.Contents = string(data)

	tokens, source, err := loadTokens(fs, path, data)
	if err != nil {
		res.Err = errors.Errorf("%s: %w", path, err)
		return res
	}
	res.TokenSource = source

	parser, err := importdecl.NewParser(res.Contents, tokens)
	if err != nil {
		res.Err = errors.Errorf("%s: %w", path, err)
		return res
	}

	res.Sites = parser.Sites()
	res.Diagnostics = diagnostic.Check(res.Sites)

	logger.Debug().
		Str("token_source", source).
		Int("tokens", len(tokens)).
		Int("imports", len(res.Sites)).
		Int("diagnostics", len(res.Diagnostics)).
		Msg("scanned file")

	return res
}

func loadTokens(fs afero.Fs, path string, data []byte) ([]syntax.Token, string, error) {
	sidecar := path + TokensSuffix

	ok, err := afero.Exists(fs, sidecar)
	if err != nil {
		return nil, "", errors.Errorf("checking for %s: %w", sidecar, err)
	}

	if !ok {
		tokens, err := lexer.Tokenize(path, data)
		if err != nil {
			return nil, "", errors.Errorf("tokenizing: %w", err)
		}
		return tokens, TokenSourceLexer, nil
	}

	file, err := fs.Open(sidecar)
	if err != nil {
		return nil, "", errors.Errorf("opening %s: %w", sidecar, err)
	}
	defer file.Close()

	tokens, err := syntax.DecodeTokens(file)
	if err != nil {
		return nil, "", errors.Errorf("reading %s: %w", sidecar, err)
	}
	return tokens, TokenSourceSidecar, nil
}

func errorCount(merr *multierror.Error) int {
	if merr == nil {
		return 0
	}
	return len(merr.Errors)
}
