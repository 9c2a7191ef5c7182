package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slatelang/slate/pkg/ast"
	"github.com/slatelang/slate/pkg/lexer"
	"github.com/slatelang/slate/pkg/parser"
)

func parseSource(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	toks, err := lexer.Tokenize(source)
	require.NoError(t, err)
	program, err := parser.Parse(toks)
	require.NoError(t, err)
	return program
}

func TestParse_Statements(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "declare",
			source: "int x\n",
			want:   `(declare int "x")`,
		},
		{
			name:   "declare_assign",
			source: "int x = 1\n",
			want:   `(declare_assign int "x" (integer "1"))`,
		},
		{
			name:   "declare_array",
			source: "int[][] grid\n",
			want:   `(declare int[][] "grid")`,
		},
		{
			name:   "string_declare",
			source: "str s = \"hi\"\n",
			want:   `(declare_assign str "s" (string "hi"))`,
		},
		{
			name:   "assign",
			source: "x = 1\n",
			want:   `(assign "x" "=" (integer "1"))`,
		},
		{
			name:   "enum_declare",
			source: "enum Color {RED, GREEN, BLUE}\n",
			want:   `(enum_declare "Color" "RED" "GREEN" "BLUE")`,
		},
		{
			name:   "enum_declare_empty",
			source: "enum Nothing {}\n",
			want:   `(enum_declare "Nothing")`,
		},
		{
			name:   "func_declare",
			source: "int add(int a, int b):\n    return a + b\n",
			want:   `(func_declare int "add" ((declare int "a") (declare int "b")) ((return (binop "+" (id "a") (id "b")))))`,
		},
		{
			name:   "func_declare_default_param",
			source: "void greet(str name = \"you\"):\n    pass\n",
			want:   `(func_declare void "greet" ((declare_assign str "name" (string "you"))) ((pass)))`,
		},
		{
			name:   "bare_return",
			source: "return\n",
			want:   `(return)`,
		},
		{
			name:   "when_with_default",
			source: "when x > 1:\n    pass\ndefault:\n    pass\n",
			want:   `(when_stmt (when (comop ">" (id "x") (integer "1")) ((pass))) (default ((pass))))`,
		},
		{
			name:   "when_run_merges",
			source: "when a:\n    pass\nwhen b:\n    pass\n",
			want:   `(when_stmt (when (id "a") ((pass))) (when (id "b") ((pass))))`,
		},
		{
			name:   "loop_over_range",
			source: "loop int i in 1..10:\n    pass\n",
			want:   `(loop (declare int "i") (range (integer "1") (integer "10")) ((pass)))`,
		},
		{
			name:   "until",
			source: "until x > 3:\n    pass\n",
			want:   `(until (comop ">" (id "x") (integer "3")) ((pass)))`,
		},
		{
			name:   "struct_with_base",
			source: "struct Dog extends Animal:\n    pass\n",
			want:   `(struct "Dog" ("Animal") ((pass)))`,
		},
		{
			name:   "struct_ctor",
			source: "(int size):\n    pass\n",
			want:   `(struct_ctor ((declare int "size")) ((pass)))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			program := parseSource(t, tt.source)
			require.Len(t, program, 1)
			assert.Equal(t, tt.want, ast.Dump(program[0]))
		})
	}
}

func TestParse_CompoundAssignOps(t *testing.T) {
	ops := []string{"=", "+=", "-=", "*=", "/=", "%=", "**="}
	for _, op := range ops {
		t.Run(op, func(t *testing.T) {
			program := parseSource(t, "x "+op+" 2\n")
			require.Len(t, program, 1)
			stmt, ok := program[0].(*ast.Assign)
			require.True(t, ok)
			assert.Equal(t, op, stmt.Op)
		})
	}
}

func TestParse_Expressions(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "multiplication_binds_tighter_than_addition",
			source: "1 + 2 * 3",
			want:   `(binop "+" (integer "1") (binop "*" (integer "2") (integer "3")))`,
		},
		{
			name:   "grouping_overrides_precedence",
			source: "(1 + 2) * 3",
			want:   `(binop "*" (binop "+" (integer "1") (integer "2")) (integer "3"))`,
		},
		{
			name:   "power_is_right_associative",
			source: "2 ** 3 ** 2",
			want:   `(binop "**" (integer "2") (binop "**" (integer "3") (integer "2")))`,
		},
		{
			name:   "additive_is_left_associative",
			source: "1 - 2 - 3",
			want:   `(binop "-" (binop "-" (integer "1") (integer "2")) (integer "3"))`,
		},
		{
			name:   "logic_precedence",
			source: "a && !b || c == 1",
			want:   `(logic_or (logic_and (id "a") (logic_not (id "b"))) (comop "==" (id "c") (integer "1")))`,
		},
		{
			name:   "comparison_binds_tighter_than_and",
			source: "x > 1 && y < 2",
			want:   `(logic_and (comop ">" (id "x") (integer "1")) (comop "<" (id "y") (integer "2")))`,
		},
		{
			name:   "ternary",
			source: "ok ? 1 ! 2",
			want:   `(conop (id "ok") (integer "1") (integer "2"))`,
		},
		{
			name:   "ternary_is_right_associative",
			source: "a ? 1 ! b ? 2 ! 3",
			want:   `(conop (id "a") (integer "1") (conop (id "b") (integer "2") (integer "3")))`,
		},
		{
			name:   "range_of_arithmetic",
			source: "n + 1..m * 2",
			want:   `(range (binop "+" (id "n") (integer "1")) (binop "*" (id "m") (integer "2")))`,
		},
		{
			name:   "cast",
			source: "(double)1",
			want:   `(cast double (integer "1"))`,
		},
		{
			name:   "cast_binds_to_unary_operand",
			source: "(int)x + 1",
			want:   `(binop "+" (cast int (id "x")) (integer "1"))`,
		},
		{
			name:   "lambda",
			source: "(int a) -> a + 1",
			want:   `(lambda_func ((declare int "a")) (binop "+" (id "a") (integer "1")))`,
		},
		{
			name:   "lambda_two_params",
			source: "(int a, str b) -> a",
			want:   `(lambda_func ((declare int "a") (declare str "b")) (id "a"))`,
		},
		{
			name:   "lambda_zero_params",
			source: "() -> 1",
			want:   `(lambda_func () (integer "1"))`,
		},
		{
			name:   "array_literal",
			source: "[1, 2, 3]",
			want:   `(array_lit (integer "1") (integer "2") (integer "3"))`,
		},
		{
			name:   "empty_array_literal",
			source: "[]",
			want:   `(array_lit)`,
		},
		{
			name:   "index",
			source: "xs[0]",
			want:   `(index (id "xs") (integer "0"))`,
		},
		{
			name:   "index_chain",
			source: "grid[1][2]",
			want:   `(index (index (id "grid") (integer "1")) (integer "2"))`,
		},
		{
			name:   "func_call",
			source: "add(1, x)",
			want:   `(func_call "add" (integer "1") (id "x"))`,
		},
		{
			name:   "member_access_chain",
			source: "a.b.c",
			want:   `(access (access (id "a") (id "b")) (id "c"))`,
		},
		{
			name:   "method_call",
			source: "dog.speak(1)",
			want:   `(access (id "dog") (func_call "speak" (integer "1")))`,
		},
		{
			name:   "increment",
			source: "++i",
			want:   `(unary "++" (id "i"))`,
		},
		{
			name:   "decrement",
			source: "--i",
			want:   `(unary "--" (id "i"))`,
		},
		{
			name:   "spread",
			source: "*xs",
			want:   `(spread (id "xs"))`,
		},
		{
			name:   "modifier",
			source: "@x",
			want:   `(modifier (id "x"))`,
		},
		{
			name:   "double_literal",
			source: "1.5 + 2.25",
			want:   `(binop "+" (double "1.5") (double "2.25"))`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Wrap the expression in a return statement so it sits in
			// expression position.
			program := parseSource(t, "return "+tt.source+"\n")
			require.Len(t, program, 1)
			ret, ok := program[0].(*ast.Return)
			require.True(t, ok)
			assert.Equal(t, tt.want, ast.Dump(ret.Value))
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{name: "missing_name_after_type", source: "int = 3\n", expected: "identifier"},
		{name: "missing_assign_op", source: "x 5\n", expected: "an assignment operator"},
		{name: "missing_expression", source: "x = \n", expected: "an expression"},
		{name: "unclosed_paren", source: "x = (1 + 2\n", expected: "')'"},
		{name: "empty_block", source: "when true:\n    pass\nuntil x:\nint y\n", expected: "INDENT"},
		{name: "ternary_missing_bang", source: "x = a ? 1 : 2\n", expected: "'!'"},
		{name: "block_hits_eof", source: "when true:\n    x = (1\n", expected: "')'"},
		{name: "statement_expected", source: "+ 1\n", expected: "a statement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := lexer.Tokenize(tt.source)
			require.NoError(t, err)

			_, err = parser.Parse(toks)
			require.Error(t, err)

			var parseErr *parser.Error
			require.ErrorAs(t, err, &parseErr)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestParse_MultipleStatements(t *testing.T) {
	source := "int x = 1\nint y = 2\nx += y\n"
	program := parseSource(t, source)
	require.Len(t, program, 3)

	want := `(declare_assign int "x" (integer "1"))
(declare_assign int "y" (integer "2"))
(assign "x" "+=" (id "y"))`
	assert.Equal(t, want, ast.DumpProgram(program))
}

func TestParse_NestedBlocks(t *testing.T) {
	source := "void run(int n):\n    loop int i in 1..n:\n        when i > 2:\n            pass\n"
	program := parseSource(t, source)
	require.Len(t, program, 1)

	want := `(func_declare void "run" ((declare int "n")) ((loop (declare int "i") (range (integer "1") (id "n")) ((when_stmt (when (comop ">" (id "i") (integer "2")) ((pass))))))))`
	assert.Equal(t, want, ast.Dump(program[0]))
}
