// Package lsp serves slate diagnostics over the Language Server
// Protocol. Documents are re-checked in full on every change; the
// pipeline is a batch pass, so there is nothing incremental to reuse.
package lsp

import (
	"context"
	"encoding/json"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/slatelang/slate/pkg/frontend"
	"github.com/slatelang/slate/pkg/lexer"
	"github.com/slatelang/slate/pkg/parser"
	"github.com/slatelang/slate/pkg/semantics"
	"github.com/sourcegraph/jsonrpc2"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

// Server is one LSP session over a single connection.
type Server struct {
	id        string
	documents *DocumentManager
	checker   *frontend.Checker
	conn      *jsonrpc2.Conn
}

// NewServer creates a server that checks documents with the given
// checker.
func NewServer(checker *frontend.Checker) *Server {
	return &Server{
		id:        uuid.New().String(),
		documents: NewDocumentManager(),
		checker:   checker,
	}
}

// Serve runs the session over rwc (normally stdin/stdout) until the
// client disconnects.
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	logger := zerolog.Ctx(ctx).With().Str("server_id", s.id).Logger()
	ctx = logger.WithContext(ctx)

	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	s.conn = jsonrpc2.NewConn(ctx, stream, jsonrpc2.HandlerWithError(s.handle))
	logger.Info().Msg("language server started")

	select {
	case <-ctx.Done():
		return multierr.Append(ctx.Err(), s.conn.Close())
	case <-s.conn.DisconnectNotify():
		logger.Info().Msg("client disconnected")
		return nil
	}
}

func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("method", req.Method).Msg("client request")

	switch req.Method {
	case "initialize":
		return &InitializeResult{
			Capabilities: ServerCapabilities{TextDocumentSync: 1},
			ServerInfo:   ServerInfo{Name: "slate-lsp", Version: s.id},
		}, nil

	case "initialized", "shutdown", "exit":
		return nil, nil

	case "textDocument/didOpen":
		var params DidOpenTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		s.documents.Set(params.TextDocument.URI, params.TextDocument.Text)
		return nil, s.publishDiagnostics(ctx, params.TextDocument.URI)

	case "textDocument/didChange":
		var params DidChangeTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		// Full sync: the last change event carries the whole document.
		if n := len(params.ContentChanges); n > 0 {
			s.documents.Set(params.TextDocument.URI, params.ContentChanges[n-1].Text)
		}
		return nil, s.publishDiagnostics(ctx, params.TextDocument.URI)

	case "textDocument/didClose":
		var params DidCloseTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, err
		}
		s.documents.Delete(params.TextDocument.URI)
		return nil, nil

	default:
		logger.Debug().Str("method", req.Method).Msg("ignoring unsupported method")
		return nil, nil
	}
}

func unmarshalParams(req *jsonrpc2.Request, out any) error {
	if req.Params == nil {
		return errors.Errorf("%s: missing params", req.Method)
	}
	if err := json.Unmarshal(*req.Params, out); err != nil {
		return errors.Errorf("%s: bad params: %w", req.Method, err)
	}
	return nil
}

// publishDiagnostics re-checks a document and notifies the client of
// the first error, or of none when the document is clean.
func (s *Server) publishDiagnostics(ctx context.Context, uri string) error {
	content, ok := s.documents.Get(uri)
	if !ok {
		return errors.Errorf("unknown document %s", uri)
	}

	diagnostics := make([]Diagnostic, 0, 1)
	if _, err := s.checker.Check(ctx, uri, content); err != nil {
		diagnostics = append(diagnostics, toDiagnostic(err))
	}

	zerolog.Ctx(ctx).Debug().Str("uri", uri).Int("diagnostics", len(diagnostics)).Msg("publishing diagnostics")
	return s.conn.Notify(ctx, "textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// toDiagnostic converts a stage error into an LSP diagnostic. Lexical
// and parse errors carry positions; semantic errors do not, so they
// anchor at the top of the document.
func toDiagnostic(err error) Diagnostic {
	diag := Diagnostic{
		Severity: SeverityError,
		Source:   "slate",
		Message:  err.Error(),
	}

	var lexErr *lexer.Error
	var parseErr *parser.Error
	var semErr *semantics.Error
	switch {
	case errors.As(err, &lexErr):
		diag.Range = pointRange(lexErr.Line, lexErr.Col)
		diag.Message = lexErr.Message
	case errors.As(err, &parseErr):
		diag.Range = pointRange(parseErr.Token.Line, parseErr.Token.Col)
		diag.Message = parseErr.Error()
	case errors.As(err, &semErr):
		diag.Message = semErr.Message
	}
	return diag
}

// pointRange converts 1-based lexer coordinates into a zero-length
// zero-based LSP range.
func pointRange(line, col int) Range {
	if line > 0 {
		line--
	}
	if col > 0 {
		col--
	}
	pos := Position{Line: line, Character: col}
	return Range{Start: pos, End: pos}
}
