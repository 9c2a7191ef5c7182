// Package parser builds a slate AST from a token stream.
//
// The parser is a pure function of the token sequence: recursive
// descent for statements and blocks, precedence climbing for
// expressions. The precedence table, low to high:
//
//	1. ternary  cond ? then ! else   (right-associative)
//	2. ||
//	3. &&
//	4. == != < > <= >=               (left-associative, non-chaining in spirit)
//	5. ..
//	6. + -
//	7. * / %
//	8. **                            (right-associative)
//	9. prefix ! ++ -- * @ and cast (type)expr
//	10. postfix call, index, member access
//	11. literals, identifiers, grouping, array literals, lambdas
//
// Comparison chains like a < b < c parse left-associatively; the
// analyzer rejects them later because bool never unifies with a
// numeric operand.
package parser

import (
	"fmt"
	"strings"

	"github.com/slatelang/slate/pkg/ast"
	"github.com/slatelang/slate/pkg/token"
)

// Error is a syntax error: the first token that cannot extend any
// production, together with the continuations that would have been
// syntactically valid there.
type Error struct {
	Token    token.Token
	Expected []string
}

func (e *Error) Error() string {
	exp := strings.Join(e.Expected, " or ")
	if e.Token.Kind == token.EOF {
		return fmt.Sprintf("parse error: unexpected end of input, expected %s", exp)
	}
	return fmt.Sprintf("parse error at line %d, col %d: unexpected %s, expected %s",
		e.Token.Line, e.Token.Col, e.Token, exp)
}

// Parser consumes a token sequence produced by the lexer.
type Parser struct {
	toks []token.Token
	pos  int
}

// New creates a parser over the given tokens. The sequence must end in
// an EOF token, as produced by lexer.Tokenize.
func New(toks []token.Token) *Parser {
	return &Parser{toks: toks}
}

// Parse consumes the whole token stream and returns the ordered
// sequence of top-level statements.
func Parse(toks []token.Token) ([]ast.Stmt, error) {
	return New(toks).Program()
}

// Program parses statements until EOF.
func (p *Parser) Program() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.at(token.EOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// ---- token plumbing ----

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		if len(p.toks) == 0 {
			return token.Token{Kind: token.EOF}
		}
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	if p.pos+n >= len(p.toks) {
		if len(p.toks) == 0 {
			return token.Token{Kind: token.EOF}
		}
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *Parser) next() token.Token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) accept(k token.Kind) bool {
	if p.at(k) {
		p.pos++
		return true
	}
	return false
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.at(k) {
		return p.next(), nil
	}
	return token.Token{}, p.fail(k.String())
}

func (p *Parser) fail(expected ...string) error {
	return &Error{Token: p.peek(), Expected: expected}
}

// ---- statements ----

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch tok := p.peek(); {
	case token.IsTypeKeyword(tok.Kind):
		return p.parseTypedStmt()
	case tok.Kind == token.Ident:
		return p.parseAssign()
	case tok.Kind == token.Enum:
		return p.parseEnumDeclare()
	case tok.Kind == token.Return:
		return p.parseReturn()
	case tok.Kind == token.Pass:
		p.next()
		if _, err := p.expect(token.Newline); err != nil {
			return nil, err
		}
		return &ast.Pass{}, nil
	case tok.Kind == token.When:
		return p.parseWhen()
	case tok.Kind == token.Loop:
		return p.parseLoop()
	case tok.Kind == token.Until:
		return p.parseUntil()
	case tok.Kind == token.Struct:
		return p.parseStruct()
	case tok.Kind == token.LParen:
		return p.parseStructCtor()
	default:
		return nil, p.fail("a statement")
	}
}

// parseTypedStmt handles the three statements that begin with a type:
// `T x`, `T x = expr`, and `T f(params): block`.
func (p *Parser) parseTypedStmt() (ast.Stmt, error) {
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	switch {
	case p.at(token.LParen):
		params, err := p.parseParams()
		if err != nil {
			return nil, err
		}
		body, err := p.parseHeaderBlock()
		if err != nil {
			return nil, err
		}
		return &ast.FuncDeclare{ReturnType: typ, Name: name.Text, Params: params, Body: body}, nil

	case p.accept(token.Assign):
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.Newline); err != nil {
			return nil, err
		}
		return &ast.DeclareAssign{Type: typ, Name: name.Text, Value: value}, nil

	default:
		if _, err := p.expect(token.Newline); err != nil {
			return nil, err
		}
		return &ast.Declare{Type: typ, Name: name.Text}, nil
	}
}

func (p *Parser) parseAssign() (ast.Stmt, error) {
	name := p.next()
	op := p.peek()
	if !token.IsAssignOp(op.Kind) {
		return nil, p.fail("an assignment operator")
	}
	p.next()
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Newline); err != nil {
		return nil, err
	}
	return &ast.Assign{Name: name.Text, Op: op.Text, Value: value}, nil
}

func (p *Parser) parseEnumDeclare() (ast.Stmt, error) {
	p.next() // enum
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBrace); err != nil {
		return nil, err
	}
	var members []string
	if p.at(token.Ident) {
		members = append(members, p.next().Text)
		for p.accept(token.Comma) {
			member, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}
			members = append(members, member.Text)
		}
	}
	if _, err := p.expect(token.RBrace); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Newline); err != nil {
		return nil, err
	}
	return &ast.EnumDeclare{Name: name.Text, Members: members}, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	p.next() // return
	if p.accept(token.Newline) {
		return &ast.Return{}, nil
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Newline); err != nil {
		return nil, err
	}
	return &ast.Return{Value: value}, nil
}

// parseWhen collects a run of consecutive when branches and an
// optional default block into a single statement, preserving order.
func (p *Parser) parseWhen() (ast.Stmt, error) {
	stmt := &ast.WhenStmt{}
	for p.at(token.When) {
		p.next()
		cond, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.parseHeaderBlock()
		if err != nil {
			return nil, err
		}
		stmt.Branches = append(stmt.Branches, ast.WhenBranch{Cond: cond, Body: body})
	}
	if p.accept(token.Default) {
		body, err := p.parseHeaderBlock()
		if err != nil {
			return nil, err
		}
		stmt.Default = body
	}
	return stmt, nil
}

func (p *Parser) parseLoop() (ast.Stmt, error) {
	p.next() // loop
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.In); err != nil {
		return nil, err
	}
	iterable, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseHeaderBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Loop{Var: &ast.Declare{Type: typ, Name: name.Text}, Iterable: iterable, Body: body}, nil
}

func (p *Parser) parseUntil() (ast.Stmt, error) {
	p.next() // until
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.parseHeaderBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Until{Cond: cond, Body: body}, nil
}

func (p *Parser) parseStruct() (ast.Stmt, error) {
	p.next() // struct
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	var bases []string
	if p.accept(token.Extends) {
		base, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		bases = append(bases, base.Text)
	}
	body, err := p.parseHeaderBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Struct{Name: name.Text, Bases: bases, Body: body}, nil
}

func (p *Parser) parseStructCtor() (ast.Stmt, error) {
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseHeaderBlock()
	if err != nil {
		return nil, err
	}
	return &ast.StructCtor{Params: params, Body: body}, nil
}

// parseHeaderBlock finishes a compound-statement header: the colon,
// then an indented block.
func (p *Parser) parseHeaderBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(token.Colon); err != nil {
		return nil, err
	}
	return p.parseBlock()
}

// parseBlock is `NEWLINE INDENT stmt+ DEDENT`. Every block holds at
// least one statement.
func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(token.Newline); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Indent); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for !p.at(token.Dedent) {
		if p.at(token.EOF) {
			return nil, p.fail("DEDENT")
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if len(stmts) == 0 {
		return nil, p.fail("a statement")
	}
	p.next() // dedent
	return stmts, nil
}

// ---- parameters and types ----

// parseParams parses `( [param (, param)*] )` where a param is a
// declaration with an optional default value.
func (p *Parser) parseParams() ([]ast.Param, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var params []ast.Param
	if !p.at(token.RParen) {
		for {
			param, err := p.parseParam()
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.accept(token.Comma) {
				break
			}
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseParam() (ast.Param, error) {
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if p.accept(token.Assign) {
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.DeclareAssign{Type: typ, Name: name.Text, Value: value}, nil
	}
	return &ast.Declare{Type: typ, Name: name.Text}, nil
}

// parseType parses a primitive type name with any number of trailing
// [] suffixes, each wrapping the element type one level deeper.
func (p *Parser) parseType() (ast.Type, error) {
	tok := p.peek()
	if !token.IsTypeKeyword(tok.Kind) {
		return nil, p.fail("a type")
	}
	p.next()
	var typ ast.Type = &ast.Primitive{Name: tok.Text}
	for p.at(token.LBracket) && p.peekAt(1).Kind == token.RBracket {
		p.next()
		p.next()
		typ = &ast.ArrayType{Elem: typ}
	}
	return typ, nil
}

// ---- expressions ----

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseCond()
}

// parseCond handles the ternary `cond ? then ! else`. The else branch
// re-enters at this level, making the operator right-associative.
func (p *Parser) parseCond() (ast.Expr, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.accept(token.Question) {
		return cond, nil
	}
	then, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Bang); err != nil {
		return nil, err
	}
	els, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	return &ast.CondOp{Cond: cond, Then: then, Else: els}, nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.accept(token.Or) {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicOr{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseCompare()
	if err != nil {
		return nil, err
	}
	for p.accept(token.And) {
		right, err := p.parseCompare()
		if err != nil {
			return nil, err
		}
		left = &ast.LogicAnd{Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseCompare() (ast.Expr, error) {
	left, err := p.parseRange()
	if err != nil {
		return nil, err
	}
	for isCompareOp(p.peek().Kind) {
		op := p.next()
		right, err := p.parseRange()
		if err != nil {
			return nil, err
		}
		left = &ast.CompareOp{Op: op.Text, Left: left, Right: right}
	}
	return left, nil
}

func isCompareOp(k token.Kind) bool {
	switch k {
	case token.Eq, token.Neq, token.Lt, token.Gt, token.Lte, token.Gte:
		return true
	default:
		return false
	}
}

func (p *Parser) parseRange() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.accept(token.DotDot) {
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.Range{Start: left, End: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.at(token.Plus) || p.at(token.Minus) {
		op := p.next()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op.Text, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for p.at(token.Star) || p.at(token.Slash) || p.at(token.Percent) {
		op := p.next()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &ast.BinOp{Op: op.Text, Left: left, Right: right}
	}
	return left, nil
}

// parsePower is right-associative: 2 ** 3 ** 2 is 2 ** (3 ** 2).
func (p *Parser) parsePower() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if !p.accept(token.Power) {
		return left, nil
	}
	right, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return &ast.BinOp{Op: "**", Left: left, Right: right}, nil
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	switch p.peek().Kind {
	case token.Bang:
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.LogicNot{Operand: operand}, nil

	case token.Increment, token.Decrement:
		op := p.next()
		// ++ and -- only apply to identifiers.
		name, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op.Text, Operand: &ast.Id{Name: name.Text}}, nil

	case token.Star:
		p.next()
		value, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Spread{Value: value}, nil

	case token.At:
		p.next()
		value, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Modifier{Value: value}, nil

	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.accept(token.LBracket):
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBracket); err != nil {
				return nil, err
			}
			expr = &ast.Index{Array: expr, Idx: idx}

		case p.accept(token.Dot):
			member, err := p.parseMember()
			if err != nil {
				return nil, err
			}
			expr = &ast.Access{Object: expr, Member: member}

		default:
			return expr, nil
		}
	}
}

// parseMember parses the right side of a `.`: an identifier, possibly
// called. Chains left-associate: a.b.c is access(access(a, b), c).
func (p *Parser) parseMember() (ast.Expr, error) {
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	if p.at(token.LParen) {
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		return &ast.FuncCall{Name: name.Text, Args: args}, nil
	}
	return &ast.Id{Name: name.Text}, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	switch tok := p.peek(); tok.Kind {
	case token.Int:
		p.next()
		return &ast.Integer{Text: tok.Text}, nil
	case token.Double:
		p.next()
		return &ast.Double{Text: tok.Text}, nil
	case token.String:
		p.next()
		return &ast.String{Value: tok.Text}, nil
	case token.Bool:
		p.next()
		return &ast.Boolean{Text: tok.Text}, nil

	case token.Ident:
		p.next()
		if p.at(token.LParen) {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			return &ast.FuncCall{Name: tok.Text, Args: args}, nil
		}
		return &ast.Id{Name: tok.Text}, nil

	case token.LParen:
		return p.parseParenExpr()

	case token.LBracket:
		return p.parseArrayLit()

	default:
		return nil, p.fail("an expression")
	}
}

// parseParenExpr disambiguates the three constructs that begin with a
// parenthesis in expression position:
//
//	(type)expr          cast
//	(params) -> expr    lambda
//	(expr)              grouping
//
// A type keyword after the parenthesis means cast or lambda; an
// identifier after the type means the parenthesis opened a parameter
// list. `() ->` is the zero-parameter lambda.
func (p *Parser) parseParenExpr() (ast.Expr, error) {
	if p.peekAt(1).Kind == token.RParen && p.peekAt(2).Kind == token.Arrow {
		p.next() // (
		p.next() // )
		p.next() // ->
		body, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return &ast.LambdaFunc{Body: body}, nil
	}

	if token.IsTypeKeyword(p.peekAt(1).Kind) {
		p.next() // (
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if p.at(token.Ident) {
			return p.parseLambdaRest(typ)
		}
		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}
		value, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.Cast{Target: typ, Value: value}, nil
	}

	p.next() // (
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseLambdaRest continues a lambda after its first parameter's type
// has already been consumed by the cast/lambda lookahead.
func (p *Parser) parseLambdaRest(firstType ast.Type) (ast.Expr, error) {
	name, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}
	var first ast.Param
	if p.accept(token.Assign) {
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		first = &ast.DeclareAssign{Type: firstType, Name: name.Text, Value: value}
	} else {
		first = &ast.Declare{Type: firstType, Name: name.Text}
	}

	params := []ast.Param{first}
	for p.accept(token.Comma) {
		param, err := p.parseParam()
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.Arrow); err != nil {
		return nil, err
	}
	body, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return &ast.LambdaFunc{Params: params, Body: body}, nil
}

func (p *Parser) parseArrayLit() (ast.Expr, error) {
	p.next() // [
	lit := &ast.ArrayLit{}
	if !p.at(token.RBracket) {
		for {
			item, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			lit.Items = append(lit.Items, item)
			if !p.accept(token.Comma) {
				break
			}
		}
	}
	if _, err := p.expect(token.RBracket); err != nil {
		return nil, err
	}
	return lit, nil
}

func (p *Parser) parseArgs() ([]ast.Expr, error) {
	if _, err := p.expect(token.LParen); err != nil {
		return nil, err
	}
	var args []ast.Expr
	if !p.at(token.RParen) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.accept(token.Comma) {
				break
			}
		}
	}
	if _, err := p.expect(token.RParen); err != nil {
		return nil, err
	}
	return args, nil
}
