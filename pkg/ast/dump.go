package ast

import (
	"fmt"
	"strings"
)

// Dump renders a node as a compact S-expression, one statement per
// line at the top level. It exists for the inspection commands and for
// readable test failures; it is not a persisted format.
func Dump(n Node) string {
	var sb strings.Builder
	dump(&sb, n)
	return sb.String()
}

// DumpProgram renders each top-level statement on its own line.
func DumpProgram(stmts []Stmt) string {
	lines := make([]string, 0, len(stmts))
	for _, s := range stmts {
		lines = append(lines, Dump(s))
	}
	return strings.Join(lines, "\n")
}

func dump(sb *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Primitive:
		sb.WriteString(v.Name)
	case *ArrayType:
		dump(sb, v.Elem)
		sb.WriteString("[]")

	case *Declare:
		list(sb, "declare", v.Type, str(v.Name))
	case *Assign:
		list(sb, "assign", str(v.Name), str(v.Op), v.Value)
	case *DeclareAssign:
		list(sb, "declare_assign", v.Type, str(v.Name), v.Value)
	case *EnumDeclare:
		parts := []any{str(v.Name)}
		for _, m := range v.Members {
			parts = append(parts, str(m))
		}
		list(sb, "enum_declare", parts...)
	case *Return:
		if v.Value == nil {
			list(sb, "return")
		} else {
			list(sb, "return", v.Value)
		}
	case *Pass:
		list(sb, "pass")
	case *FuncDeclare:
		list(sb, "func_declare", v.ReturnType, str(v.Name), params(v.Params), body(v.Body))
	case *Struct:
		bases := make([]any, 0, len(v.Bases))
		for _, b := range v.Bases {
			bases = append(bases, str(b))
		}
		list(sb, "struct", str(v.Name), group(bases...), body(v.Body))
	case *StructCtor:
		list(sb, "struct_ctor", params(v.Params), body(v.Body))
	case *WhenStmt:
		parts := make([]any, 0, len(v.Branches)+1)
		for _, br := range v.Branches {
			parts = append(parts, group(raw("when"), br.Cond, body(br.Body)))
		}
		if v.Default != nil {
			parts = append(parts, group(raw("default"), body(v.Default)))
		}
		list(sb, "when_stmt", parts...)
	case *Loop:
		list(sb, "loop", v.Var, v.Iterable, body(v.Body))
	case *Until:
		list(sb, "until", v.Cond, body(v.Body))

	case *Integer:
		list(sb, "integer", str(v.Text))
	case *Double:
		list(sb, "double", str(v.Text))
	case *String:
		list(sb, "string", str(v.Value))
	case *Boolean:
		list(sb, "boolean", str(v.Text))
	case *Id:
		list(sb, "id", str(v.Name))
	case *BinOp:
		list(sb, "binop", str(v.Op), v.Left, v.Right)
	case *Unary:
		list(sb, "unary", str(v.Op), v.Operand)
	case *LogicNot:
		list(sb, "logic_not", v.Operand)
	case *LogicAnd:
		list(sb, "logic_and", v.Left, v.Right)
	case *LogicOr:
		list(sb, "logic_or", v.Left, v.Right)
	case *CompareOp:
		list(sb, "comop", str(v.Op), v.Left, v.Right)
	case *CondOp:
		list(sb, "conop", v.Cond, v.Then, v.Else)
	case *Access:
		list(sb, "access", v.Object, v.Member)
	case *Cast:
		list(sb, "cast", v.Target, v.Value)
	case *Range:
		list(sb, "range", v.Start, v.End)
	case *ArrayLit:
		items := make([]any, 0, len(v.Items))
		for _, it := range v.Items {
			items = append(items, it)
		}
		list(sb, "array_lit", items...)
	case *Index:
		list(sb, "index", v.Array, v.Idx)
	case *Spread:
		list(sb, "spread", v.Value)
	case *Modifier:
		list(sb, "modifier", v.Value)
	case *FuncCall:
		parts := []any{str(v.Name)}
		for _, a := range v.Args {
			parts = append(parts, a)
		}
		list(sb, "func_call", parts...)
	case *LambdaFunc:
		list(sb, "lambda_func", params(v.Params), v.Body)

	default:
		fmt.Fprintf(sb, "(unknown %T)", n)
	}
}

type rawText string

func raw(s string) rawText { return rawText(s) }
func str(s string) rawText { return rawText(fmt.Sprintf("%q", s)) }

type grouped []any

func group(parts ...any) grouped { return grouped(parts) }

func params(ps []Param) grouped {
	parts := make([]any, 0, len(ps))
	for _, p := range ps {
		parts = append(parts, p)
	}
	return grouped(parts)
}

func body(stmts []Stmt) grouped {
	parts := make([]any, 0, len(stmts))
	for _, s := range stmts {
		parts = append(parts, s)
	}
	return grouped(parts)
}

func list(sb *strings.Builder, tag string, parts ...any) {
	sb.WriteByte('(')
	sb.WriteString(tag)
	for _, p := range parts {
		sb.WriteByte(' ')
		writePart(sb, p)
	}
	sb.WriteByte(')')
}

func writePart(sb *strings.Builder, p any) {
	switch v := p.(type) {
	case rawText:
		sb.WriteString(string(v))
	case grouped:
		sb.WriteByte('(')
		for i, inner := range v {
			if i > 0 {
				sb.WriteByte(' ')
			}
			writePart(sb, inner)
		}
		sb.WriteByte(')')
	case Node:
		dump(sb, v)
	default:
		fmt.Fprintf(sb, "%v", v)
	}
}
