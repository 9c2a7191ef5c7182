// Package repl implements an interactive type-checking session. Each
// input is tokenized, parsed and checked against a symbol table that
// persists across inputs, so declarations remain visible.
package repl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/slatelang/slate/pkg/ast"
	"github.com/slatelang/slate/pkg/lexer"
	"github.com/slatelang/slate/pkg/parser"
	"github.com/slatelang/slate/pkg/semantics"
)

const (
	historyFile = ".slate_history"
	promptMain  = "slate> "
	promptCont  = "  ...> "
	banner      = "slate repl. End a line with ':' to open a block, a blank line closes it, Ctrl+D exits."
)

type Handler struct {
	tabWidth int
	dumpAST  bool
}

func NewReplCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "interactive type-checking session",
	}

	cmd.Flags().IntVar(&me.tabWidth, "tab-width", lexer.DefaultTabWidth, "tab width used for indentation")
	cmd.Flags().BoolVar(&me.dumpAST, "ast", false, "print the syntax tree of each input")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	analyzer := semantics.NewAnalyzer()

	for {
		source, ok := readInput(ln)
		if !ok {
			fmt.Println()
			break
		}
		if strings.TrimSpace(source) == "" {
			continue
		}

		me.checkInput(ctx, analyzer, source)
		ln.AppendHistory(strings.ReplaceAll(strings.TrimRight(source, "\n"), "\n", " "))
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return nil
}

func (me *Handler) checkInput(ctx context.Context, analyzer *semantics.Analyzer, source string) {
	toks, err := lexer.Tokenize(source, lexer.WithTabWidth(me.tabWidth))
	if err != nil {
		fmt.Println(err)
		return
	}

	program, err := parser.Parse(toks)
	if err != nil {
		fmt.Println(err)
		return
	}

	if me.dumpAST {
		fmt.Println(ast.DumpProgram(program))
	}

	if err := analyzer.Program(ctx, program); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("ok")
}

// readInput reads one input. A line ending with ':' opens a block;
// continuation lines are collected until a blank line closes it.
func readInput(ln *liner.State) (string, bool) {
	line, err := ln.Prompt(promptMain)
	if err != nil {
		return "", false
	}

	var sb strings.Builder
	sb.WriteString(line)
	sb.WriteByte('\n')

	if !strings.HasSuffix(strings.TrimRight(line, " \t"), ":") {
		return sb.String(), true
	}

	for {
		cont, err := ln.Prompt(promptCont)
		if err != nil {
			return sb.String(), true
		}
		if strings.TrimSpace(cont) == "" {
			return sb.String(), true
		}
		sb.WriteString(cont)
		sb.WriteByte('\n')
	}
}
