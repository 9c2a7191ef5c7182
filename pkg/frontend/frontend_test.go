package frontend_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slatelang/slate/pkg/frontend"
	"github.com/slatelang/slate/pkg/lexer"
	"github.com/slatelang/slate/pkg/parser"
	"github.com/slatelang/slate/pkg/semantics"
)

func TestCheck_StageErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		target any
	}{
		{name: "lex_error", source: "int x = \"oops\n", target: new(*lexer.Error)},
		{name: "parse_error", source: "int = 3\n", target: new(*parser.Error)},
		{name: "semantic_error", source: "x = 1\n", target: new(*semantics.Error)},
	}

	checker := frontend.NewChecker()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := checker.Check(context.Background(), "input.sl", tt.source)
			require.Error(t, err)
			assert.ErrorAs(t, err, tt.target)
			assert.Contains(t, err.Error(), "input.sl")
		})
	}
}

func TestCheck_ValidProgram(t *testing.T) {
	checker := frontend.NewChecker()
	program, err := checker.Check(context.Background(), "ok.sl", "int add(int a, int b):\n    return a + b\nint r = add(1, 2)\n")
	require.NoError(t, err)
	assert.Len(t, program, 2)
}

func TestCheckFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "src/main.sl", []byte("int x = 1\n"), 0o644))

	checker := frontend.NewChecker(frontend.WithFs(fs))

	_, err := checker.CheckFile(context.Background(), "src/main.sl")
	assert.NoError(t, err)

	_, err = checker.CheckFile(context.Background(), "src/missing.sl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "src/missing.sl")
}

func TestCheckGlob(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "src/good.sl", []byte("int x = 1\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "src/bad.sl", []byte("bool b = 1\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "src/worse.sl", []byte("y = 2\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "src/notes.txt", []byte("not slate\n"), 0o644))

	checker := frontend.NewChecker(frontend.WithFs(fs))

	paths, err := checker.CheckGlob(context.Background(), "src/*.sl")
	assert.Len(t, paths, 3)

	// One bad unit does not hide the other: both failures surface.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "src/bad.sl")
	assert.Contains(t, err.Error(), "src/worse.sl")
	assert.NotContains(t, err.Error(), "src/good.sl")
}

func TestCheckGlob_DoubleStar(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "a.sl", []byte("int x\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "deep/nested/b.sl", []byte("int y\n"), 0o644))

	checker := frontend.NewChecker(frontend.WithFs(fs))

	paths, err := checker.CheckGlob(context.Background(), "**/*.sl")
	require.NoError(t, err)
	assert.Len(t, paths, 2)
}

func TestCheckGlob_NoMatches(t *testing.T) {
	checker := frontend.NewChecker(frontend.WithFs(afero.NewMemMapFs()))

	_, err := checker.CheckGlob(context.Background(), "src/*.sl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files match")
}

func TestCheck_TabWidthOption(t *testing.T) {
	// A tab and 8 spaces are the same indentation level at width 8, and
	// different levels at the default width of 4.
	source := "when true:\n\tint a = 1\n        int b = 2\n"

	_, err := frontend.NewChecker(frontend.WithTabWidth(8)).Check(context.Background(), "tabs.sl", source)
	assert.NoError(t, err)

	_, err = frontend.NewChecker().Check(context.Background(), "tabs.sl", source)
	assert.Error(t, err)
}
