// Package ast defines the abstract syntax tree produced by the parser.
//
// The tree is a closed tagged union: every node kind is one of the
// types below, statements implement Stmt and expressions implement
// Expr. The tree is immutable once built; the semantic analyzer reads
// it and records results in its own side tables. Node identity is
// structural, never referential.
package ast

// Node is implemented by every AST node.
type Node interface {
	node()
}

// Stmt is implemented by statement nodes.
type Stmt interface {
	Node
	stmt()
}

// Expr is implemented by expression nodes.
type Expr interface {
	Node
	expr()
}

// Type is implemented by type-expression nodes (the surface syntax of
// types, distinct from semantic type descriptors).
type Type interface {
	Node
	typ()
}

// Param is a function or constructor parameter: a Declare, or a
// DeclareAssign when the parameter carries a default value.
type Param interface {
	Node
	param()
}

// ---- types ----

// Primitive is one of int, str, bool, double, void.
type Primitive struct {
	Name string
}

// ArrayType is elem[], nesting to arbitrary depth.
type ArrayType struct {
	Elem Type
}

func (*Primitive) node() {}
func (*Primitive) typ()  {}
func (*ArrayType) node() {}
func (*ArrayType) typ()  {}

// ---- statements ----

// Declare is `type name`.
type Declare struct {
	Type Type
	Name string
}

// Assign is `name op expr` where op is one of = += -= *= /= %= **=.
// Op preserves the literal operator text.
type Assign struct {
	Name  string
	Op    string
	Value Expr
}

// DeclareAssign is `type name = expr`.
type DeclareAssign struct {
	Type  Type
	Name  string
	Value Expr
}

// EnumDeclare is `enum Name { A, B, C }`. Member order is preserved.
type EnumDeclare struct {
	Name    string
	Members []string
}

// Return is `return` or `return expr`; Value is nil for the bare form.
type Return struct {
	Value Expr
}

// Pass is the `pass` statement.
type Pass struct{}

// FuncDeclare is `type name(params): block`.
type FuncDeclare struct {
	ReturnType Type
	Name       string
	Params     []Param
	Body       []Stmt
}

// Struct is `struct Name [extends Base]: block`.
type Struct struct {
	Name  string
	Bases []string
	Body  []Stmt
}

// StructCtor is a `(params): block` construct following a struct. The
// parser does not bind it to the struct; association is positional and
// left to later stages.
type StructCtor struct {
	Params []Param
	Body   []Stmt
}

// WhenBranch is one `when cond: block` arm.
type WhenBranch struct {
	Cond Expr
	Body []Stmt
}

// WhenStmt is an ordered run of when branches with an optional default
// block. Order matters: the first matching branch wins.
type WhenStmt struct {
	Branches []WhenBranch
	Default  []Stmt
}

// Loop is `loop declare in expr: block`.
type Loop struct {
	Var      *Declare
	Iterable Expr
	Body     []Stmt
}

// Until is `until cond: block`.
type Until struct {
	Cond Expr
	Body []Stmt
}

func (*Declare) node()        {}
func (*Declare) stmt()        {}
func (*Declare) param()       {}
func (*Assign) node()         {}
func (*Assign) stmt()         {}
func (*DeclareAssign) node()  {}
func (*DeclareAssign) stmt()  {}
func (*DeclareAssign) param() {}
func (*EnumDeclare) node()    {}
func (*EnumDeclare) stmt()    {}
func (*Return) node()         {}
func (*Return) stmt()         {}
func (*Pass) node()           {}
func (*Pass) stmt()           {}
func (*FuncDeclare) node()    {}
func (*FuncDeclare) stmt()    {}
func (*Struct) node()         {}
func (*Struct) stmt()         {}
func (*StructCtor) node()     {}
func (*StructCtor) stmt()     {}
func (*WhenStmt) node()       {}
func (*WhenStmt) stmt()       {}
func (*Loop) node()           {}
func (*Loop) stmt()           {}
func (*Until) node()          {}
func (*Until) stmt()          {}

// ---- expressions ----

// Integer is an integer literal; Text preserves the source spelling.
type Integer struct {
	Text string
}

// Double is a double literal; Text preserves the source spelling.
type Double struct {
	Text string
}

// String is a string literal; Value is the decoded text.
type String struct {
	Value string
}

// Boolean is `true` or `false`; Text preserves the source spelling.
type Boolean struct {
	Text string
}

// Id is an identifier reference.
type Id struct {
	Name string
}

// BinOp is an arithmetic binary operation (+ - * / % **).
type BinOp struct {
	Op    string
	Left  Expr
	Right Expr
}

// Unary is a prefix ++ or -- on an identifier.
type Unary struct {
	Op      string
	Operand Expr
}

// LogicNot is `!expr`.
type LogicNot struct {
	Operand Expr
}

// LogicAnd is `left && right`.
type LogicAnd struct {
	Left  Expr
	Right Expr
}

// LogicOr is `left || right`.
type LogicOr struct {
	Left  Expr
	Right Expr
}

// CompareOp is one of == != < > <= >=.
type CompareOp struct {
	Op    string
	Left  Expr
	Right Expr
}

// CondOp is the ternary `cond ? then ! else`.
type CondOp struct {
	Cond Expr
	Then Expr
	Else Expr
}

// Access is member access `object.member`.
type Access struct {
	Object Expr
	Member Expr
}

// Cast is `(type)expr`.
type Cast struct {
	Target Type
	Value  Expr
}

// Range is `start..end`.
type Range struct {
	Start Expr
	End   Expr
}

// ArrayLit is `[items]`. Item order is preserved.
type ArrayLit struct {
	Items []Expr
}

// Index is `array[index]`.
type Index struct {
	Array Expr
	Idx   Expr
}

// Spread is the prefix `*expr`.
type Spread struct {
	Value Expr
}

// Modifier is the prefix `@expr`.
type Modifier struct {
	Value Expr
}

// FuncCall is `name(args)`. Argument order is preserved.
type FuncCall struct {
	Name string
	Args []Expr
}

// LambdaFunc is `(params) -> expr`.
type LambdaFunc struct {
	Params []Param
	Body   Expr
}

func (*Integer) node()    {}
func (*Integer) expr()    {}
func (*Double) node()     {}
func (*Double) expr()     {}
func (*String) node()     {}
func (*String) expr()     {}
func (*Boolean) node()    {}
func (*Boolean) expr()    {}
func (*Id) node()         {}
func (*Id) expr()         {}
func (*BinOp) node()      {}
func (*BinOp) expr()      {}
func (*Unary) node()      {}
func (*Unary) expr()      {}
func (*LogicNot) node()   {}
func (*LogicNot) expr()   {}
func (*LogicAnd) node()   {}
func (*LogicAnd) expr()   {}
func (*LogicOr) node()    {}
func (*LogicOr) expr()    {}
func (*CompareOp) node()  {}
func (*CompareOp) expr()  {}
func (*CondOp) node()     {}
func (*CondOp) expr()     {}
func (*Access) node()     {}
func (*Access) expr()     {}
func (*Cast) node()       {}
func (*Cast) expr()       {}
func (*Range) node()      {}
func (*Range) expr()      {}
func (*ArrayLit) node()   {}
func (*ArrayLit) expr()   {}
func (*Index) node()      {}
func (*Index) expr()      {}
func (*Spread) node()     {}
func (*Spread) expr()     {}
func (*Modifier) node()   {}
func (*Modifier) expr()   {}
func (*FuncCall) node()   {}
func (*FuncCall) expr()   {}
func (*LambdaFunc) node() {}
func (*LambdaFunc) expr() {}
