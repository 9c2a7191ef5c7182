package serve_lsp

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/slatelang/slate/pkg/frontend"
	"github.com/slatelang/slate/pkg/lexer"
	"github.com/slatelang/slate/pkg/lsp"
)

type Handler struct {
	tabWidth int
}

func NewServeLSPCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "serve-lsp",
		Short: "start the language server on stdin/stdout",
	}

	cmd.Flags().IntVar(&me.tabWidth, "tab-width", lexer.DefaultTabWidth, "tab width used for indentation")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return me.Run(cmd.Context())
	}

	return cmd
}

func (me *Handler) Run(ctx context.Context) error {
	checker := frontend.NewChecker(frontend.WithTabWidth(me.tabWidth))
	server := lsp.NewServer(checker)

	rwc := stdio{Reader: os.Stdin, Writer: os.Stdout}
	if err := server.Serve(ctx, rwc); err != nil {
		return errors.Errorf("error running language server: %w", err)
	}

	return nil
}

// stdio joins stdin and stdout into the single stream jsonrpc2 wants.
type stdio struct {
	io.Reader
	io.Writer
}

func (stdio) Close() error { return nil }
