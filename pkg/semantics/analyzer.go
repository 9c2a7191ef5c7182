// Package semantics performs scoped symbol resolution and static type
// checking over a parsed program.
//
// The analyzer is fail-fast: it reports the first scope or type
// violation and stops, matching the single-pass batch model of the
// rest of the pipeline. Each Analyzer owns its symbol table, so
// independent programs can be analyzed in parallel; within one program
// analysis is strictly sequential and order-dependent.
package semantics

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/slatelang/slate/pkg/ast"
	"github.com/slatelang/slate/pkg/types"
	"gitlab.com/tozd/go/errors"
)

// Error is a scope or type rule violation.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return "semantic error: " + e.Message
}

func errf(format string, args ...any) error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// Analyzer walks an AST with a scoped symbol table. The zero value is
// not usable; create one with NewAnalyzer.
type Analyzer struct {
	symbols *SymbolTable

	// returnTypes is the stack of enclosing function return types,
	// innermost last. An explicit stack rather than a single slot, so
	// nested declarations each see their own frame.
	returnTypes []types.Type
}

// NewAnalyzer creates an analyzer with a fresh global scope.
func NewAnalyzer() *Analyzer {
	return &Analyzer{symbols: NewSymbolTable()}
}

// Symbols exposes the symbol table, which callers may inspect after a
// successful analysis (the REPL resolves session bindings through it).
func (a *Analyzer) Symbols() *SymbolTable {
	return a.symbols
}

// Analyze checks a whole program against a fresh global scope.
func Analyze(ctx context.Context, program []ast.Stmt) error {
	return NewAnalyzer().Program(ctx, program)
}

// Program checks the statements in order against the analyzer's
// current state, failing on the first violation.
func (a *Analyzer) Program(ctx context.Context, program []ast.Stmt) error {
	for _, stmt := range program {
		if err := a.checkStmt(ctx, stmt); err != nil {
			return err
		}
	}
	zerolog.Ctx(ctx).Debug().Int("statements", len(program)).Msg("analysis complete")
	return nil
}

// checkStmt dispatches exhaustively over the statement union. The
// default branch is an internal consistency error: it means the parser
// and analyzer have drifted apart, never a user mistake.
func (a *Analyzer) checkStmt(ctx context.Context, stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Declare:
		return a.symbols.Declare(s.Name, types.FromAST(s.Type))

	case *ast.DeclareAssign:
		declared := types.FromAST(s.Type)
		actual, err := a.inferExpr(ctx, s.Value)
		if err != nil {
			return err
		}
		if !types.Compatible(declared, actual) {
			return errf("cannot initialize %q of type %s with a value of type %s", s.Name, declared, actual)
		}
		return a.symbols.Declare(s.Name, declared)

	case *ast.Assign:
		declared, ok := a.symbols.Lookup(s.Name)
		if !ok {
			return errf("undeclared identifier %q", s.Name)
		}
		actual, err := a.inferExpr(ctx, s.Value)
		if err != nil {
			return err
		}
		// Compound operators are checked for type compatibility only,
		// not for operator validity on the underlying type.
		if !types.Compatible(declared, actual) {
			return errf("cannot assign a value of type %s to %q of type %s", actual, s.Name, declared)
		}
		return nil

	case *ast.EnumDeclare:
		desc := &types.Enum{Name: s.Name}
		if err := a.symbols.Declare(s.Name, desc); err != nil {
			return err
		}
		// Members are visible as bare identifiers, not namespaced.
		for _, member := range s.Members {
			if err := a.symbols.Declare(member, desc); err != nil {
				return err
			}
		}
		return nil

	case *ast.FuncDeclare:
		return a.checkFuncDeclare(ctx, s)

	case *ast.Return:
		if len(a.returnTypes) == 0 {
			return errf("return outside of a function")
		}
		actual := types.Type(types.Void)
		if s.Value != nil {
			t, err := a.inferExpr(ctx, s.Value)
			if err != nil {
				return err
			}
			actual = t
		}
		declared := a.returnTypes[len(a.returnTypes)-1]
		if !types.Compatible(declared, actual) {
			return errf("cannot return a value of type %s from a function declared to return %s", actual, declared)
		}
		return nil

	case *ast.Pass:
		return nil

	case *ast.WhenStmt:
		// Branch bodies share the enclosing scope: when is not a
		// scope-introducing construct in this language.
		for _, branch := range s.Branches {
			condType, err := a.inferExpr(ctx, branch.Cond)
			if err != nil {
				return err
			}
			if !types.Equal(condType, types.Bool) {
				return errf("when condition must be bool, got %s", condType)
			}
			if err := a.checkBody(ctx, branch.Body); err != nil {
				return err
			}
		}
		if s.Default != nil {
			return a.checkBody(ctx, s.Default)
		}
		return nil

	case *ast.Loop:
		iterType, err := a.inferExpr(ctx, s.Iterable)
		if err != nil {
			return err
		}
		switch iterType.(type) {
		case *types.Array, *types.Range:
			// Arrays iterate their elements; ranges iterate ints. The
			// loop variable's declared type is not cross-checked
			// against the element type.
		default:
			return errf("loop iterable must be an array or a range, got %s", iterType)
		}
		a.symbols.Push()
		defer a.symbols.Pop()
		if err := a.symbols.Declare(s.Var.Name, types.FromAST(s.Var.Type)); err != nil {
			return err
		}
		return a.checkBody(ctx, s.Body)

	case *ast.Until:
		condType, err := a.inferExpr(ctx, s.Cond)
		if err != nil {
			return err
		}
		if !types.Equal(condType, types.Bool) {
			return errf("until condition must be bool, got %s", condType)
		}
		a.symbols.Push()
		defer a.symbols.Pop()
		return a.checkBody(ctx, s.Body)

	case *ast.Struct, *ast.StructCtor:
		// Struct bodies, inheritance and constructor binding are not
		// type-checked yet; the nodes pass through to the generator.
		return nil

	default:
		return errors.Errorf("internal: unknown statement node %T", stmt)
	}
}

func (a *Analyzer) checkBody(ctx context.Context, body []ast.Stmt) error {
	for _, stmt := range body {
		if err := a.checkStmt(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// checkFuncDeclare declares the function in the scope that encloses
// its body, so it is visible for recursion and to siblings, then
// checks the body in a fresh scope with a new return-type frame.
func (a *Analyzer) checkFuncDeclare(ctx context.Context, s *ast.FuncDeclare) error {
	returnType := types.FromAST(s.ReturnType)

	paramTypes := make([]types.Type, 0, len(s.Params))
	for _, param := range s.Params {
		paramTypes = append(paramTypes, paramType(param))
	}
	desc := &types.Function{Return: returnType, Params: paramTypes}
	if err := a.symbols.Declare(s.Name, desc); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().Str("function", s.Name).Stringer("type", desc).Msg("declared function")

	a.symbols.Push()
	defer a.symbols.Pop()
	a.returnTypes = append(a.returnTypes, returnType)
	defer func() { a.returnTypes = a.returnTypes[:len(a.returnTypes)-1] }()

	for _, param := range s.Params {
		if err := a.declareParam(ctx, param); err != nil {
			return err
		}
	}
	return a.checkBody(ctx, s.Body)
}

func paramType(param ast.Param) types.Type {
	switch p := param.(type) {
	case *ast.Declare:
		return types.FromAST(p.Type)
	case *ast.DeclareAssign:
		return types.FromAST(p.Type)
	default:
		return nil
	}
}

func (a *Analyzer) declareParam(ctx context.Context, param ast.Param) error {
	switch p := param.(type) {
	case *ast.Declare:
		return a.symbols.Declare(p.Name, types.FromAST(p.Type))
	case *ast.DeclareAssign:
		declared := types.FromAST(p.Type)
		actual, err := a.inferExpr(ctx, p.Value)
		if err != nil {
			return err
		}
		if !types.Compatible(declared, actual) {
			return errf("default value of parameter %q has type %s, want %s", p.Name, actual, declared)
		}
		return a.symbols.Declare(p.Name, declared)
	default:
		return errors.Errorf("internal: unknown parameter node %T", param)
	}
}

// inferExpr dispatches exhaustively over the expression union and
// returns the expression's type.
func (a *Analyzer) inferExpr(ctx context.Context, expr ast.Expr) (types.Type, error) {
	switch e := expr.(type) {
	case *ast.Integer:
		return types.Int, nil
	case *ast.Double:
		return types.Double, nil
	case *ast.String:
		return types.Str, nil
	case *ast.Boolean:
		return types.Bool, nil

	case *ast.Id:
		t, ok := a.symbols.Lookup(e.Name)
		if !ok {
			return nil, errf("undeclared identifier %q", e.Name)
		}
		return t, nil

	case *ast.BinOp:
		return a.inferBinOp(ctx, e)

	case *ast.Unary:
		operand, err := a.inferExpr(ctx, e.Operand)
		if err != nil {
			return nil, err
		}
		if !types.Equal(operand, types.Int) {
			return nil, errf("operator %q requires an int operand, got %s", e.Op, operand)
		}
		return types.Int, nil

	case *ast.LogicNot:
		operand, err := a.inferExpr(ctx, e.Operand)
		if err != nil {
			return nil, err
		}
		if !types.Equal(operand, types.Bool) {
			return nil, errf("operator \"!\" requires a bool operand, got %s", operand)
		}
		return types.Bool, nil

	case *ast.LogicAnd:
		return a.inferLogicBinary(ctx, "&&", e.Left, e.Right)
	case *ast.LogicOr:
		return a.inferLogicBinary(ctx, "||", e.Left, e.Right)

	case *ast.CompareOp:
		left, err := a.inferExpr(ctx, e.Left)
		if err != nil {
			return nil, err
		}
		right, err := a.inferExpr(ctx, e.Right)
		if err != nil {
			return nil, err
		}
		if !types.Compatible(left, right) && !types.Compatible(right, left) {
			return nil, errf("cannot compare %s with %s", left, right)
		}
		return types.Bool, nil

	case *ast.CondOp:
		condType, err := a.inferExpr(ctx, e.Cond)
		if err != nil {
			return nil, err
		}
		if !types.Equal(condType, types.Bool) {
			return nil, errf("ternary condition must be bool, got %s", condType)
		}
		thenType, err := a.inferExpr(ctx, e.Then)
		if err != nil {
			return nil, err
		}
		elseType, err := a.inferExpr(ctx, e.Else)
		if err != nil {
			return nil, err
		}
		if !types.Compatible(thenType, elseType) {
			return nil, errf("ternary branches have incompatible types %s and %s", thenType, elseType)
		}
		return thenType, nil

	case *ast.Cast:
		// Casts always succeed and take the target type; no narrowing
		// check is performed. The operand is still resolved so scope
		// errors inside it surface.
		if _, err := a.inferExpr(ctx, e.Value); err != nil {
			return nil, err
		}
		return types.FromAST(e.Target), nil

	case *ast.Range:
		start, err := a.inferExpr(ctx, e.Start)
		if err != nil {
			return nil, err
		}
		end, err := a.inferExpr(ctx, e.End)
		if err != nil {
			return nil, err
		}
		if !types.Equal(start, types.Int) || !types.Equal(end, types.Int) {
			return nil, errf("range bounds must be int, got %s..%s", start, end)
		}
		return &types.Range{}, nil

	case *ast.ArrayLit:
		if len(e.Items) == 0 {
			return nil, errf("cannot infer the element type of an empty array literal")
		}
		elemType, err := a.inferExpr(ctx, e.Items[0])
		if err != nil {
			return nil, err
		}
		for _, item := range e.Items[1:] {
			itemType, err := a.inferExpr(ctx, item)
			if err != nil {
				return nil, err
			}
			if !types.Equal(itemType, elemType) {
				return nil, errf("array literal items must all have type %s, got %s", elemType, itemType)
			}
		}
		return &types.Array{Elem: elemType}, nil

	case *ast.Index:
		arrayType, err := a.inferExpr(ctx, e.Array)
		if err != nil {
			return nil, err
		}
		array, ok := arrayType.(*types.Array)
		if !ok {
			return nil, errf("cannot index a value of type %s", arrayType)
		}
		idxType, err := a.inferExpr(ctx, e.Idx)
		if err != nil {
			return nil, err
		}
		if !types.Equal(idxType, types.Int) {
			return nil, errf("array index must be int, got %s", idxType)
		}
		return array.Elem, nil

	case *ast.Spread:
		valueType, err := a.inferExpr(ctx, e.Value)
		if err != nil {
			return nil, err
		}
		if _, ok := valueType.(*types.Array); !ok {
			return nil, errf("spread requires an array operand, got %s", valueType)
		}
		return valueType, nil

	case *ast.Modifier:
		// Type-transparent at this analysis depth.
		return a.inferExpr(ctx, e.Value)

	case *ast.FuncCall:
		return a.inferFuncCall(ctx, e)

	case *ast.LambdaFunc:
		return a.inferLambda(ctx, e)

	case *ast.Access:
		// Member access depends on struct typing, which is out of
		// scope until a member-layout policy is defined.
		if _, err := a.inferExpr(ctx, e.Object); err != nil {
			return nil, err
		}
		return nil, errf("member access is not supported yet")

	default:
		return nil, errors.Errorf("internal: unknown expression node %T", expr)
	}
}

// inferBinOp checks an arithmetic operation. Numeric operands widen to
// double when either side is double; equal non-numeric operand types
// pass through (so str + str is str), per the compatibility rule.
func (a *Analyzer) inferBinOp(ctx context.Context, e *ast.BinOp) (types.Type, error) {
	left, err := a.inferExpr(ctx, e.Left)
	if err != nil {
		return nil, err
	}
	right, err := a.inferExpr(ctx, e.Right)
	if err != nil {
		return nil, err
	}
	if !types.Compatible(left, right) && !types.Compatible(right, left) {
		return nil, errf("operator %q has incompatible operand types %s and %s", e.Op, left, right)
	}
	if types.IsNumeric(left) && types.IsNumeric(right) {
		if types.Equal(left, types.Double) || types.Equal(right, types.Double) {
			return types.Double, nil
		}
		return types.Int, nil
	}
	return left, nil
}

func (a *Analyzer) inferLogicBinary(ctx context.Context, op string, leftExpr, rightExpr ast.Expr) (types.Type, error) {
	left, err := a.inferExpr(ctx, leftExpr)
	if err != nil {
		return nil, err
	}
	right, err := a.inferExpr(ctx, rightExpr)
	if err != nil {
		return nil, err
	}
	if !types.Equal(left, types.Bool) || !types.Equal(right, types.Bool) {
		return nil, errf("operator %q requires bool operands, got %s and %s", op, left, right)
	}
	return types.Bool, nil
}

func (a *Analyzer) inferFuncCall(ctx context.Context, e *ast.FuncCall) (types.Type, error) {
	resolved, ok := a.symbols.Lookup(e.Name)
	if !ok {
		return nil, errf("undeclared identifier %q", e.Name)
	}
	fn, ok := resolved.(*types.Function)
	if !ok {
		return nil, errf("%q is not a function, it has type %s", e.Name, resolved)
	}
	if len(e.Args) != len(fn.Params) {
		return nil, errf("%q expects %d arguments, got %d", e.Name, len(fn.Params), len(e.Args))
	}
	for i, arg := range e.Args {
		argType, err := a.inferExpr(ctx, arg)
		if err != nil {
			return nil, err
		}
		if !types.Compatible(fn.Params[i], argType) {
			return nil, errf("argument %d of %q has type %s, want %s", i+1, e.Name, argType, fn.Params[i])
		}
	}
	return fn.Return, nil
}

// inferLambda types a lambda as a function of its parameter types to
// its body's inferred type. The body sees a fresh scope holding only
// the parameters and the enclosing bindings.
func (a *Analyzer) inferLambda(ctx context.Context, e *ast.LambdaFunc) (types.Type, error) {
	a.symbols.Push()
	defer a.symbols.Pop()

	paramTypes := make([]types.Type, 0, len(e.Params))
	for _, param := range e.Params {
		if err := a.declareParam(ctx, param); err != nil {
			return nil, err
		}
		paramTypes = append(paramTypes, paramType(param))
	}
	bodyType, err := a.inferExpr(ctx, e.Body)
	if err != nil {
		return nil, err
	}
	return &types.Function{Return: bodyType, Params: paramTypes}, nil
}
