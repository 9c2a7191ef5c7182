package semantics_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slatelang/slate/pkg/ast"
	"github.com/slatelang/slate/pkg/lexer"
	"github.com/slatelang/slate/pkg/parser"
	"github.com/slatelang/slate/pkg/semantics"
)

func parseForTest(t *testing.T, source string) []ast.Stmt {
	t.Helper()
	toks, err := lexer.Tokenize(source)
	require.NoError(t, err)
	program, err := parser.Parse(toks)
	require.NoError(t, err)
	return program
}

func analyze(t *testing.T, source string) error {
	t.Helper()
	return semantics.Analyze(context.Background(), parseForTest(t, source))
}

func TestAnalyze_Valid(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{
			name:   "declare_then_assign",
			source: "int x\nx = 1\n",
		},
		{
			name:   "int_widens_to_double",
			source: "double d = 1\n",
		},
		{
			name:   "compound_assign",
			source: "int x = 1\nx += 2\nx **= 2\n",
		},
		{
			name:   "string_concat",
			source: "str a = \"x\"\nstr b = \"y\"\nstr c = a + b\n",
		},
		{
			name:   "mixed_arithmetic_widens",
			source: "double d = 1 + 2.5\n",
		},
		{
			name:   "shadowing_in_function_body",
			source: "int x = 1\nvoid f():\n    int x = 2\n",
		},
		{
			name:   "function_call",
			source: "int add(int a, int b):\n    return a + b\nint r = add(1, 2)\n",
		},
		{
			name:   "recursive_function",
			source: "int fact(int n):\n    return n * fact(n - 1)\n",
		},
		{
			name:   "nested_function_returns",
			source: "int outer():\n    str inner():\n        return \"s\"\n    return 1\n",
		},
		{
			name:   "int_argument_widens_to_double",
			source: "void f(double d):\n    pass\nf(1)\n",
		},
		{
			name:   "enum_members_compare",
			source: "enum Color {RED, GREEN}\nbool same = RED == GREEN\n",
		},
		{
			name:   "when_shares_enclosing_scope",
			source: "bool ok = true\nwhen ok:\n    int y = 1\ny = 2\n",
		},
		{
			name:   "loop_over_range",
			source: "loop int i in 1..10:\n    int sq = i * i\n",
		},
		{
			name:   "loop_over_array",
			source: "int[] xs = [1, 2]\nloop int x in xs:\n    pass\n",
		},
		{
			name:   "loop_variable_scoped_to_body",
			source: "loop int i in 1..3:\n    pass\nint i = 5\n",
		},
		{
			name:   "until_condition",
			source: "int x = 0\nuntil x > 3:\n    x += 1\n",
		},
		{
			name:   "ternary",
			source: "bool ok = true\nint x = ok ? 1 ! 2\n",
		},
		{
			name:   "ternary_widens",
			source: "bool ok = true\ndouble d = ok ? 1.5 ! 2\n",
		},
		{
			name:   "array_index",
			source: "int[] xs = [1, 2, 3]\nint first = xs[0]\n",
		},
		{
			name:   "nested_array",
			source: "int[][] grid = [[1], [2]]\nint cell = grid[0][0]\n",
		},
		{
			name:   "cast_is_unchecked",
			source: "double d = 1.5\nint i = (int)d\n",
		},
		{
			name:   "increment",
			source: "int i = 0\nint j = ++i\n",
		},
		{
			name:   "spread_of_array",
			source: "int[] xs = [1]\nint[] ys = *xs\n",
		},
		{
			name:   "modifier_is_transparent",
			source: "int x = @1\n",
		},
		{
			name:   "default_parameter_value",
			source: "void f(int a = 3):\n    pass\n",
		},
		{
			name:   "structs_pass_through",
			source: "struct Dog extends Animal:\n    pass\n(int size):\n    pass\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, analyze(t, tt.source))
		})
	}
}

func TestAnalyze_Errors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
	}{
		{
			name:    "undeclared_identifier",
			source:  "x = 1\n",
			message: `undeclared identifier "x"`,
		},
		{
			name:    "undeclared_in_expression",
			source:  "int x = y + 1\n",
			message: `undeclared identifier "y"`,
		},
		{
			name:    "redeclare_in_same_scope",
			source:  "int x\nstr x\n",
			message: `"x" is already declared in this scope`,
		},
		{
			name:    "double_does_not_narrow_to_int",
			source:  "int x = 1.5\n",
			message: "cannot initialize",
		},
		{
			name:    "assign_type_mismatch",
			source:  "int x\nx = \"s\"\n",
			message: "cannot assign",
		},
		{
			name:    "function_wrong_arity",
			source:  "int f(int a):\n    return a\nint r = f(1, 2)\n",
			message: `"f" expects 1 arguments, got 2`,
		},
		{
			name:    "function_wrong_arg_type",
			source:  "int f(int a):\n    return a\nint r = f(\"s\")\n",
			message: `argument 1 of "f" has type str, want int`,
		},
		{
			name:    "calling_a_non_function",
			source:  "int x = 1\nint y = x(1)\n",
			message: `"x" is not a function`,
		},
		{
			name:    "return_type_mismatch",
			source:  "int f():\n    return \"s\"\n",
			message: "cannot return a value of type str",
		},
		{
			name:    "return_outside_function",
			source:  "return 1\n",
			message: "return outside of a function",
		},
		{
			name:    "nested_return_checks_inner_frame",
			source:  "int outer():\n    str inner():\n        return 1\n    return 1\n",
			message: "cannot return a value of type int",
		},
		{
			name:    "when_condition_not_bool",
			source:  "when 1:\n    pass\n",
			message: "when condition must be bool",
		},
		{
			name:    "until_condition_not_bool",
			source:  "until 1:\n    pass\n",
			message: "until condition must be bool",
		},
		{
			name:    "loop_over_scalar",
			source:  "int n = 3\nloop int i in n:\n    pass\n",
			message: "loop iterable must be an array or a range",
		},
		{
			name:    "loop_variable_does_not_escape",
			source:  "loop int i in 1..3:\n    pass\ni = 1\n",
			message: `undeclared identifier "i"`,
		},
		{
			name:    "empty_array_literal",
			source:  "int[] xs = []\n",
			message: "cannot infer the element type of an empty array literal",
		},
		{
			name:    "mixed_array_literal",
			source:  "int[] xs = [1, \"s\"]\n",
			message: "array literal items must all have type int",
		},
		{
			name:    "heterogeneous_numeric_array",
			source:  "double[] xs = [1, 2.5]\n",
			message: "array literal items must all have type int",
		},
		{
			name:    "index_non_array",
			source:  "int x = 1\nint y = x[0]\n",
			message: "cannot index a value of type int",
		},
		{
			name:    "index_not_int",
			source:  "int[] xs = [1]\nint y = xs[\"0\"]\n",
			message: "array index must be int",
		},
		{
			name:    "range_bounds_not_int",
			source:  "loop int i in 1.5..3:\n    pass\n",
			message: "range bounds must be int",
		},
		{
			name:    "comparison_chain_rejected",
			source:  "bool b = 1 < 2 < 3\n",
			message: "cannot compare bool with int",
		},
		{
			name:    "logic_requires_bool",
			source:  "bool b = 1 && true\n",
			message: `operator "&&" requires bool operands`,
		},
		{
			name:    "not_requires_bool",
			source:  "bool b = !1\n",
			message: `operator "!" requires a bool operand`,
		},
		{
			name:    "increment_requires_int",
			source:  "str s = \"x\"\nstr t = ++s\n",
			message: `operator "++" requires an int operand`,
		},
		{
			name:    "ternary_condition_not_bool",
			source:  "int x = 1 ? 2 ! 3\n",
			message: "ternary condition must be bool",
		},
		{
			name:    "ternary_branch_mismatch",
			source:  "bool ok = true\nint x = ok ? 1 ! \"s\"\n",
			message: "ternary branches have incompatible types",
		},
		{
			name:    "binop_mismatch",
			source:  "str s = \"x\" + 1\n",
			message: `operator "+" has incompatible operand types`,
		},
		{
			name:    "spread_non_array",
			source:  "int x = 1\nint y = *x\n",
			message: "spread requires an array operand",
		},
		{
			name:    "member_access_unsupported",
			source:  "int x = 1\nint y = x.field\n",
			message: "member access is not supported yet",
		},
		{
			name:    "lambda_body_resolves_names",
			source:  "int x = (int a) -> b\n",
			message: `undeclared identifier "b"`,
		},
		{
			name:    "default_param_type_mismatch",
			source:  "void f(int a = \"s\"):\n    pass\n",
			message: `default value of parameter "a" has type str, want int`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := analyze(t, tt.source)
			require.Error(t, err)

			var semErr *semantics.Error
			require.ErrorAs(t, err, &semErr)
			assert.Contains(t, semErr.Message, tt.message)
		})
	}
}

// Analyzer state persists across Program calls, which is what keeps a
// REPL session's declarations visible to later inputs.
func TestAnalyzer_StatePersistsAcrossPrograms(t *testing.T) {
	ctx := context.Background()
	analyzer := semantics.NewAnalyzer()

	first := parseForTest(t, "int x = 1\n")
	require.NoError(t, analyzer.Program(ctx, first))

	second := parseForTest(t, "x += 2\n")
	require.NoError(t, analyzer.Program(ctx, second))

	third := parseForTest(t, "x = \"s\"\n")
	err := analyzer.Program(ctx, third)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot assign")

	typ, ok := analyzer.Symbols().Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "int", typ.String())
}
