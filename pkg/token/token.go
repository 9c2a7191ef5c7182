// Package token defines the lexical tokens of the slate language.
package token

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int

const (
	// Structural
	EOF Kind = iota
	Newline
	Indent
	Dedent

	// Identifiers and literals
	Ident
	Int
	Double
	String
	Bool

	// Keywords
	Enum
	Struct
	Extends
	When
	Default
	Loop
	Until
	In
	Return
	Pass

	// Type keywords
	IntType
	StrType
	BoolType
	DoubleType
	VoidType

	// Assignment operators
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	PowerAssign   // **=

	// Arithmetic operators
	Plus    // +
	Minus   // -
	Star    // *
	Slash   // /
	Percent // %
	Power   // **

	// Prefix operators
	Increment // ++
	Decrement // --
	Bang      // !

	// Logical operators
	And // &&
	Or  // ||

	// Comparison operators
	Eq  // ==
	Neq // !=
	Lt  // <
	Gt  // >
	Lte // <=
	Gte // >=

	// Punctuation
	Question // ?
	Colon    // :
	Dot      // .
	DotDot   // ..
	Comma    // ,
	LParen   // (
	RParen   // )
	LBracket // [
	RBracket // ]
	LBrace   // {
	RBrace   // }
	At       // @
	Arrow    // ->
)

var kindNames = map[Kind]string{
	EOF:     "EOF",
	Newline: "NEWLINE",
	Indent:  "INDENT",
	Dedent:  "DEDENT",

	Ident:  "identifier",
	Int:    "integer literal",
	Double: "double literal",
	String: "string literal",
	Bool:   "boolean literal",

	Enum:    "'enum'",
	Struct:  "'struct'",
	Extends: "'extends'",
	When:    "'when'",
	Default: "'default'",
	Loop:    "'loop'",
	Until:   "'until'",
	In:      "'in'",
	Return:  "'return'",
	Pass:    "'pass'",

	IntType:    "'int'",
	StrType:    "'str'",
	BoolType:   "'bool'",
	DoubleType: "'double'",
	VoidType:   "'void'",

	Assign:        "'='",
	PlusAssign:    "'+='",
	MinusAssign:   "'-='",
	StarAssign:    "'*='",
	SlashAssign:   "'/='",
	PercentAssign: "'%='",
	PowerAssign:   "'**='",

	Plus:    "'+'",
	Minus:   "'-'",
	Star:    "'*'",
	Slash:   "'/'",
	Percent: "'%'",
	Power:   "'**'",

	Increment: "'++'",
	Decrement: "'--'",
	Bang:      "'!'",

	And: "'&&'",
	Or:  "'||'",

	Eq:  "'=='",
	Neq: "'!='",
	Lt:  "'<'",
	Gt:  "'>'",
	Lte: "'<='",
	Gte: "'>='",

	Question: "'?'",
	Colon:    "':'",
	Dot:      "'.'",
	DotDot:   "'..'",
	Comma:    "','",
	LParen:   "'('",
	RParen:   "')'",
	LBracket: "'['",
	RBracket: "']'",
	LBrace:   "'{'",
	RBrace:   "'}'",
	At:       "'@'",
	Arrow:    "'->'",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single lexical token with its source position.
// Line and Col are 1-based; Col counts grapheme clusters, not bytes.
type Token struct {
	Kind Kind
	Text string
	Line int
	Col  int
}

func (t Token) String() string {
	switch t.Kind {
	case EOF, Newline, Indent, Dedent:
		return t.Kind.String()
	default:
		return fmt.Sprintf("%s %q", t.Kind, t.Text)
	}
}

// keywords maps reserved words to their token kinds. Identifier
// classification is a single lookup here, never a scan.
var keywords = map[string]Kind{
	"enum":    Enum,
	"struct":  Struct,
	"extends": Extends,
	"when":    When,
	"default": Default,
	"loop":    Loop,
	"until":   Until,
	"in":      In,
	"return":  Return,
	"pass":    Pass,

	"int":    IntType,
	"str":    StrType,
	"bool":   BoolType,
	"double": DoubleType,
	"void":   VoidType,

	"true":  Bool,
	"false": Bool,
}

// LookupIdent returns the keyword kind for name, or Ident if name is
// not reserved.
func LookupIdent(name string) Kind {
	if kind, ok := keywords[name]; ok {
		return kind
	}
	return Ident
}

// IsTypeKeyword reports whether k starts a type expression.
func IsTypeKeyword(k Kind) bool {
	switch k {
	case IntType, StrType, BoolType, DoubleType, VoidType:
		return true
	default:
		return false
	}
}

// IsAssignOp reports whether k is one of the assignment operators
// accepted by an assign statement.
func IsAssignOp(k Kind) bool {
	switch k {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign, PercentAssign, PowerAssign:
		return true
	default:
		return false
	}
}
