// Package inspect exposes the first two pipeline stages for debugging:
// the raw token stream and the parsed program.
package inspect

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/slatelang/slate/pkg/ast"
	"github.com/slatelang/slate/pkg/lexer"
	"github.com/slatelang/slate/pkg/parser"
	"github.com/slatelang/slate/pkg/token"
)

type Handler struct {
	tabWidth int
	fs       afero.Fs
}

func NewTokensCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "print the token stream of a slate file",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().IntVar(&me.tabWidth, "tab-width", lexer.DefaultTabWidth, "tab width used for indentation")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.RunTokens(cmd.Context(), args[0])
	}

	return cmd
}

func NewParseCommand() *cobra.Command {
	me := &Handler{fs: afero.NewOsFs()}

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "print the syntax tree of a slate file",
		Args:  cobra.ExactArgs(1),
	}

	cmd.Flags().IntVar(&me.tabWidth, "tab-width", lexer.DefaultTabWidth, "tab width used for indentation")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.RunParse(cmd.Context(), args[0])
	}

	return cmd
}

func (me *Handler) RunTokens(ctx context.Context, path string) error {
	toks, err := me.tokenize(path)
	if err != nil {
		return err
	}

	for _, tok := range toks {
		fmt.Fprintf(os.Stdout, "%4d:%-3d %-10s %q\n", tok.Line, tok.Col, tok.Kind, tok.Text)
	}
	return nil
}

func (me *Handler) RunParse(ctx context.Context, path string) error {
	toks, err := me.tokenize(path)
	if err != nil {
		return err
	}

	program, err := parser.Parse(toks)
	if err != nil {
		return errors.Errorf("%s: %w", path, err)
	}

	fmt.Fprintln(os.Stdout, ast.DumpProgram(program))
	return nil
}

func (me *Handler) tokenize(path string) ([]token.Token, error) {
	source, err := afero.ReadFile(me.fs, path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}

	toks, err := lexer.Tokenize(string(source), lexer.WithTabWidth(me.tabWidth))
	if err != nil {
		return nil, errors.Errorf("%s: %w", path, err)
	}
	return toks, nil
}
