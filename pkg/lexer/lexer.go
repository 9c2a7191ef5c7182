// Package lexer turns slate source text into a token stream.
//
// Indentation is significant: the lexer keeps a stack of indentation
// widths and synthesizes INDENT and DEDENT tokens so that the parser
// can treat blocks as flat delimiters. Every INDENT is matched by
// exactly one DEDENT before EOF.
package lexer

import (
	"fmt"
	"strings"

	"github.com/apparentlymart/go-textseg/v13/textseg"
	"github.com/slatelang/slate/pkg/token"
)

// DefaultTabWidth is how far a tab advances the indentation width when
// no project configuration overrides it.
const DefaultTabWidth = 4

// Error is a lexical error with its source position.
type Error struct {
	Line    int
	Col     int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lex error at line %d, col %d: %s", e.Line, e.Col, e.Message)
}

// Lexer scans slate source into tokens.
type Lexer struct {
	src       string
	cur       int
	line      int
	lineStart int // byte offset of the current line's first character
	indents   []int
	tabWidth  int
	toks      []token.Token
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithTabWidth sets how far a tab advances the indentation width.
func WithTabWidth(w int) Option {
	return func(l *Lexer) {
		if w > 0 {
			l.tabWidth = w
		}
	}
}

// New creates a lexer for the given source. A trailing newline is
// synthesized if the source does not end in one, so a statement on the
// last line still terminates.
func New(src string, opts ...Option) *Lexer {
	if !strings.HasSuffix(src, "\n") {
		src += "\n"
	}
	l := &Lexer{
		src:      src,
		line:     1,
		indents:  []int{0},
		tabWidth: DefaultTabWidth,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tokenize scans source and returns the full token sequence, ending in
// EOF. It fails with *Error on the first malformed character sequence
// or inconsistent indentation.
func Tokenize(src string, opts ...Option) ([]token.Token, error) {
	return New(src, opts...).All()
}

// All runs the scan to completion.
func (l *Lexer) All() ([]token.Token, error) {
	for l.cur < len(l.src) {
		if err := l.scanLine(); err != nil {
			return nil, err
		}
	}
	// Close any blocks still open at end of stream.
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.emit(token.Dedent, "")
	}
	l.emit(token.EOF, "")
	return l.toks, nil
}

// scanLine handles one physical line: indentation bookkeeping, then
// tokens through the terminating NEWLINE. Blank and comment-only lines
// produce no tokens at all.
func (l *Lexer) scanLine() error {
	l.lineStart = l.cur

	width := 0
	for l.cur < len(l.src) {
		switch l.src[l.cur] {
		case ' ':
			width++
		case '\t':
			width += l.tabWidth - width%l.tabWidth
		default:
			goto measured
		}
		l.cur++
	}
measured:

	if l.cur >= len(l.src) {
		return nil
	}
	if l.src[l.cur] == '\n' || l.src[l.cur] == '\r' || l.src[l.cur] == '#' {
		l.skipToLineEnd()
		l.consumeNewline()
		return nil
	}

	if err := l.applyIndent(width); err != nil {
		return err
	}

	for l.cur < len(l.src) {
		ch := l.src[l.cur]
		switch {
		case ch == '\n':
			l.emit(token.Newline, "")
			l.consumeNewline()
			return nil
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.cur++
		case ch == '#':
			l.skipToLineEnd()
		default:
			if err := l.scanToken(); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyIndent compares the measured width against the indentation
// stack, emitting INDENT or DEDENTs. A dedent to a width that matches
// no enclosing level is fatal.
func (l *Lexer) applyIndent(width int) error {
	top := l.indents[len(l.indents)-1]
	switch {
	case width > top:
		l.indents = append(l.indents, width)
		l.emit(token.Indent, "")
	case width < top:
		for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
			l.indents = l.indents[:len(l.indents)-1]
			l.emit(token.Dedent, "")
		}
		if l.indents[len(l.indents)-1] != width {
			return &Error{Line: l.line, Col: 1, Message: fmt.Sprintf("unindent to width %d does not match any outer indentation level", width)}
		}
	}
	return nil
}

func (l *Lexer) skipToLineEnd() {
	for l.cur < len(l.src) && l.src[l.cur] != '\n' {
		l.cur++
	}
}

func (l *Lexer) consumeNewline() {
	if l.cur < len(l.src) && l.src[l.cur] == '\n' {
		l.cur++
		l.line++
	}
}

// col returns the 1-based column of the given byte offset, counted in
// grapheme clusters from the start of the current line.
func (l *Lexer) col(offset int) int {
	n, _ := textseg.TokenCount([]byte(l.src[l.lineStart:offset]), textseg.ScanGraphemeClusters)
	return n + 1
}

func (l *Lexer) emit(kind token.Kind, text string) {
	l.toks = append(l.toks, token.Token{Kind: kind, Text: text, Line: l.line, Col: l.col(l.cur)})
}

func (l *Lexer) emitAt(kind token.Kind, text string, start int) {
	l.toks = append(l.toks, token.Token{Kind: kind, Text: text, Line: l.line, Col: l.col(start)})
}

func (l *Lexer) errorAt(start int, format string, args ...any) error {
	return &Error{Line: l.line, Col: l.col(start), Message: fmt.Sprintf(format, args...)}
}

// scanToken scans exactly one token starting at a non-space character.
func (l *Lexer) scanToken() error {
	start := l.cur
	ch := l.src[l.cur]

	switch {
	case ch == '"':
		return l.scanString()
	case isDigit(ch):
		l.scanNumber()
		return nil
	case isIdentStart(ch):
		l.scanIdent()
		return nil
	}

	// Multi-character operators resolve longest-match first.
	kind, width := l.scanOperator()
	if width == 0 {
		return l.errorAt(start, "invalid character %q", ch)
	}
	l.cur += width
	l.emitAt(kind, l.src[start:l.cur], start)
	return nil
}

func (l *Lexer) scanOperator() (token.Kind, int) {
	rest := l.src[l.cur:]
	switch {
	case strings.HasPrefix(rest, "**="):
		return token.PowerAssign, 3
	case strings.HasPrefix(rest, "**"):
		return token.Power, 2
	case strings.HasPrefix(rest, "*="):
		return token.StarAssign, 2
	case strings.HasPrefix(rest, "++"):
		return token.Increment, 2
	case strings.HasPrefix(rest, "+="):
		return token.PlusAssign, 2
	case strings.HasPrefix(rest, "--"):
		return token.Decrement, 2
	case strings.HasPrefix(rest, "-="):
		return token.MinusAssign, 2
	case strings.HasPrefix(rest, "->"):
		return token.Arrow, 2
	case strings.HasPrefix(rest, "/="):
		return token.SlashAssign, 2
	case strings.HasPrefix(rest, "%="):
		return token.PercentAssign, 2
	case strings.HasPrefix(rest, "=="):
		return token.Eq, 2
	case strings.HasPrefix(rest, "!="):
		return token.Neq, 2
	case strings.HasPrefix(rest, "<="):
		return token.Lte, 2
	case strings.HasPrefix(rest, ">="):
		return token.Gte, 2
	case strings.HasPrefix(rest, "&&"):
		return token.And, 2
	case strings.HasPrefix(rest, "||"):
		return token.Or, 2
	case strings.HasPrefix(rest, ".."):
		return token.DotDot, 2
	}

	switch rest[0] {
	case '*':
		return token.Star, 1
	case '+':
		return token.Plus, 1
	case '-':
		return token.Minus, 1
	case '/':
		return token.Slash, 1
	case '%':
		return token.Percent, 1
	case '=':
		return token.Assign, 1
	case '!':
		return token.Bang, 1
	case '<':
		return token.Lt, 1
	case '>':
		return token.Gt, 1
	case '.':
		return token.Dot, 1
	case '?':
		return token.Question, 1
	case ':':
		return token.Colon, 1
	case ',':
		return token.Comma, 1
	case '(':
		return token.LParen, 1
	case ')':
		return token.RParen, 1
	case '[':
		return token.LBracket, 1
	case ']':
		return token.RBracket, 1
	case '{':
		return token.LBrace, 1
	case '}':
		return token.RBrace, 1
	case '@':
		return token.At, 1
	}
	return token.EOF, 0
}

// scanString scans a double-quoted, single-line string literal. The
// emitted token text is the decoded value without quotes.
func (l *Lexer) scanString() error {
	start := l.cur
	l.cur++ // opening quote

	var sb strings.Builder
	for l.cur < len(l.src) {
		ch := l.src[l.cur]
		switch ch {
		case '"':
			l.cur++
			l.emitAt(token.String, sb.String(), start)
			return nil
		case '\n':
			return l.errorAt(start, "unterminated string literal")
		case '\\':
			if l.cur+1 >= len(l.src) {
				return l.errorAt(start, "unterminated string literal")
			}
			l.cur++
			switch l.src[l.cur] {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				return l.errorAt(l.cur-1, "unknown escape sequence \\%c", l.src[l.cur])
			}
			l.cur++
		default:
			sb.WriteByte(ch)
			l.cur++
		}
	}
	return l.errorAt(start, "unterminated string literal")
}

// scanNumber scans an integer or double literal. A dot only starts the
// fractional part when followed by a digit, so "1..10" lexes as an
// integer and a range operator.
func (l *Lexer) scanNumber() {
	start := l.cur
	for l.cur < len(l.src) && isDigit(l.src[l.cur]) {
		l.cur++
	}
	kind := token.Int
	if l.cur+1 < len(l.src) && l.src[l.cur] == '.' && isDigit(l.src[l.cur+1]) {
		kind = token.Double
		l.cur++
		for l.cur < len(l.src) && isDigit(l.src[l.cur]) {
			l.cur++
		}
	}
	l.emitAt(kind, l.src[start:l.cur], start)
}

func (l *Lexer) scanIdent() {
	start := l.cur
	for l.cur < len(l.src) && isIdentPart(l.src[l.cur]) {
		l.cur++
	}
	text := l.src[start:l.cur]
	l.emitAt(token.LookupIdent(text), text, start)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
