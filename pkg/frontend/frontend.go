// Package frontend ties the three stages together: tokenize, parse,
// analyze. It is the surface the CLI, REPL and LSP server talk to.
package frontend

import (
	"context"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/slatelang/slate/pkg/ast"
	"github.com/slatelang/slate/pkg/lexer"
	"github.com/slatelang/slate/pkg/parser"
	"github.com/slatelang/slate/pkg/semantics"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// Checker runs the full pipeline over sources and files. Each call
// owns its analyzer state, so one Checker may serve concurrent callers
// checking independent units.
type Checker struct {
	fs       afero.Fs
	tabWidth int
}

// Option configures a Checker.
type Option func(*Checker)

// WithFs replaces the filesystem used to resolve files and globs.
func WithFs(fs afero.Fs) Option {
	return func(c *Checker) { c.fs = fs }
}

// WithTabWidth sets the indentation width of a tab for all files this
// checker reads.
func WithTabWidth(w int) Option {
	return func(c *Checker) {
		if w > 0 {
			c.tabWidth = w
		}
	}
}

// NewChecker creates a checker over the OS filesystem.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		fs:       afero.NewOsFs(),
		tabWidth: lexer.DefaultTabWidth,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check runs tokenize → parse → analyze over one source unit and
// returns the validated AST. The returned error is the first stage
// error encountered: a *lexer.Error, *parser.Error or
// *semantics.Error, wrapped with the unit name.
func (c *Checker) Check(ctx context.Context, name, source string) ([]ast.Stmt, error) {
	logger := zerolog.Ctx(ctx).With().Str("unit", name).Logger()

	toks, err := lexer.Tokenize(source, lexer.WithTabWidth(c.tabWidth))
	if err != nil {
		return nil, errors.Errorf("%s: %w", name, err)
	}
	logger.Debug().Int("tokens", len(toks)).Msg("tokenized")

	program, err := parser.Parse(toks)
	if err != nil {
		return nil, errors.Errorf("%s: %w", name, err)
	}
	logger.Debug().Int("statements", len(program)).Msg("parsed")

	if err := semantics.Analyze(ctx, program); err != nil {
		return nil, errors.Errorf("%s: %w", name, err)
	}
	logger.Debug().Msg("validated")

	return program, nil
}

// CheckFile checks a single file.
func (c *Checker) CheckFile(ctx context.Context, path string) ([]ast.Stmt, error) {
	source, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}
	return c.Check(ctx, path, string(source))
}

// CheckGlob checks every file matching the pattern (doublestar syntax,
// `**` included). Each file is still checked fail-fast on its own, but
// failures across files are aggregated so one bad unit does not hide
// the others. It returns the paths that were checked.
func (c *Checker) CheckGlob(ctx context.Context, pattern string) ([]string, error) {
	paths, err := doublestar.Glob(afero.NewIOFS(c.fs), pattern)
	if err != nil {
		return nil, errors.Errorf("bad glob pattern %q: %w", pattern, err)
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("no files match %q", pattern)
	}

	var merr *multierror.Error
	for _, path := range paths {
		if _, err := c.CheckFile(ctx, path); err != nil {
			merr = multierror.Append(merr, err)
		}
	}
	return paths, merr.ErrorOrNil()
}
